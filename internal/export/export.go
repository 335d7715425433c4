// Package export writes one month of events as a downloadable document.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
	FormatYAML Format = "yaml"
)

const icsStamp = "20060102T150405"

var Formats = []Format{FormatJSON, FormatICS, FormatYAML}

// ParseFormat accepts json, ics and yaml (also yml). Empty means json.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "ics", "ical":
		return FormatICS, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", value)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatICS:
		return "text/calendar; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// MonthEvents keeps the events dated inside month, in stored order.
func MonthEvents(events []model.Event, month calendar.Month) []model.Event {
	filtered := []model.Event{}
	for _, ev := range events {
		if month.ContainsDate(ev.Date) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

func FileName(month calendar.Month, format Format) string {
	return fmt.Sprintf("events-%s.%s", month.String(), format)
}

func Write(w io.Writer, events []model.Event, format Format) error {
	if events == nil {
		events = []model.Event{}
	}
	switch format {
	case FormatICS:
		return writeICS(w, events)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(events); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// ToFile writes the month's events to dir and returns the file path.
func ToFile(dir string, events []model.Event, month calendar.Month, format Format) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(month, format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	if err := Write(file, MonthEvents(events, month), format); err != nil {
		return "", err
	}
	return path, file.Close()
}

func writeICS(w io.Writer, events []model.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//eventflow//EN")

	stamp := time.Now().UTC()
	for _, ev := range events {
		start, err := floatingTime(ev.Date, ev.StartTime)
		if err != nil {
			return fmt.Errorf("event %s: %w", ev.ID, err)
		}
		end, err := floatingTime(ev.Date, ev.EndTime)
		if err != nil {
			return fmt.Errorf("event %s: %w", ev.ID, err)
		}

		vevent := cal.AddEvent(ev.ID + "@eventflow")
		vevent.SetDtStampTime(stamp)
		vevent.SetProperty(ical.ComponentPropertyDtStart, start)
		vevent.SetProperty(ical.ComponentPropertyDtEnd, end)
		vevent.SetSummary(ev.Title)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		vevent.SetProperty(ical.ComponentPropertyCategories, string(model.ParseColor(string(ev.Color))))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write ics: %w", err)
	}
	return nil
}

// floatingTime renders a local date-time without a zone, so calendar clients
// keep the wall clock the user entered.
func floatingTime(date, clock string) (string, error) {
	parsed, err := time.Parse(calendar.DateLayout+" "+calendar.ClockLayout, date+" "+clock)
	if err != nil {
		return "", fmt.Errorf("invalid date-time %s %s", date, clock)
	}
	return parsed.Format(icsStamp), nil
}
