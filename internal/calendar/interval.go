package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/eventflow/internal/model"
)

// ParseClock normalizes "9:05", "09:05" or "09:05:00" to zero-padded "09:05".
// The fixed width is what makes string comparison of clock values valid.
func ParseClock(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return parsed.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", value)
}

// Overlaps reports whether a and b share a date and their [start, end)
// intervals intersect. Touching endpoints do not overlap.
func Overlaps(a, b model.Event) bool {
	if a.Date != b.Date {
		return false
	}
	return a.StartTime < b.EndTime && a.EndTime > b.StartTime
}
