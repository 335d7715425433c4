package store

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/eventflow/internal/model"
)

func formatCreatedDetails(ev model.Event) string {
	return fmt.Sprintf("created: title='%s' date=%s time=%s-%s color=%s", ev.Title, ev.Date, ev.StartTime, ev.EndTime, ev.Color)
}

func formatDeletedDetails(ev model.Event) string {
	return fmt.Sprintf("deleted: title='%s' date=%s time=%s-%s color=%s", ev.Title, ev.Date, ev.StartTime, ev.EndTime, ev.Color)
}

func formatEventDiff(before, after model.Event) string {
	changes := []string{}
	if before.Title != after.Title {
		changes = append(changes, formatChange("title", before.Title, after.Title))
	}
	if before.Description != after.Description {
		changes = append(changes, formatChange("description", before.Description, after.Description))
	}
	if before.Date != after.Date {
		changes = append(changes, formatChange("date", before.Date, after.Date))
	}
	if before.StartTime != after.StartTime || before.EndTime != after.EndTime {
		changes = append(changes, formatChange("time", before.StartTime+"-"+before.EndTime, after.StartTime+"-"+after.EndTime))
	}
	if before.Color != after.Color {
		changes = append(changes, formatChange("color", string(before.Color), string(after.Color)))
	}

	if len(changes) == 0 {
		return "updated: no changes"
	}

	return "updated: " + strings.Join(changes, "; ")
}

func formatChange(field, before, after string) string {
	return fmt.Sprintf("%s: '%s' -> '%s'", field, valueOrNone(before), valueOrNone(after))
}

func valueOrNone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "none"
	}
	return trimmed
}
