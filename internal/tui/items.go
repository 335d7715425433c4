package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/model"
)

const ellipsis = "…"

func formatEventSummary(ev model.Event) string {
	return fmt.Sprintf("%s-%s %s", ev.StartTime, ev.EndTime, ev.Title)
}

func colorMarker(color model.Color) string {
	switch color {
	case model.ColorWork:
		return "W"
	case model.ColorPersonal:
		return "P"
	case model.ColorOther:
		return "O"
	default:
		return "·"
	}
}

// cellLines renders one day cell into at most height lines of at most width
// columns. Events that do not fit collapse into a "+n more" line.
func cellLines(day calendar.CalendarDay, width, height int, carryingID string) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	label := fmt.Sprintf("%2d", day.Date.Day)
	if day.IsToday {
		label += " today"
	}
	lines := []string{truncate(label, width)}

	room := height - 1
	for i, ev := range day.Events {
		if len(lines)-1 >= room {
			break
		}
		if i == room-1 && len(day.Events) > room {
			lines = append(lines, truncate(fmt.Sprintf("+%d more", len(day.Events)-i), width))
			break
		}
		prefix := colorMarker(ev.Color)
		if ev.ID == carryingID {
			prefix = "»"
		}
		lines = append(lines, truncate(fmt.Sprintf("%s%s %s", prefix, ev.StartTime, ev.Title), width))
	}
	return lines
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, ellipsis)
}

func detailLines(ev *model.Event, history []model.HistoryEntry) []string {
	if ev == nil {
		return []string{"No event selected"}
	}

	date := ev.Date
	if d, err := calendar.ParseDate(ev.Date); err == nil {
		date = d.Long()
	}
	description := strings.TrimSpace(ev.Description)
	if description == "" {
		description = "no description"
	}

	lines := []string{
		ev.Title,
		date,
		fmt.Sprintf("Time: %s-%s", ev.StartTime, ev.EndTime),
		fmt.Sprintf("Color: %s", ev.Color),
		"",
		description,
	}
	if len(history) > 0 {
		lines = append(lines, "", "History:")
		for _, entry := range history {
			lines = append(lines, fmt.Sprintf("%s | %s | %s", entry.CreatedAt.Format("2006-01-02 15:04"), entry.EventType, entry.Details))
		}
	}
	return lines
}
