package calendar

import (
	"time"

	"github.com/Joseda-hg/eventflow/internal/model"
)

// GridSize is six full weeks. Every month renders the same shape.
const GridSize = 42

type CalendarDay struct {
	Date           Date          `json:"date"`
	IsCurrentMonth bool          `json:"isCurrentMonth"`
	IsToday        bool          `json:"isToday"`
	Events         []model.Event `json:"events"`
}

// MonthDays returns the 42 days shown for year/month, starting on the Sunday
// on or before the first of the month. Events is left empty for the caller to
// join.
func MonthDays(year int, month time.Month, today Date) []CalendarDay {
	first := NewDate(year, month, 1)
	start := first.AddDays(-int(first.Weekday()))
	current := first.MonthOf()

	days := make([]CalendarDay, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		date := start.AddDays(i)
		days = append(days, CalendarDay{
			Date:           date,
			IsCurrentMonth: current.Contains(date),
			IsToday:        date == today,
			Events:         []model.Event{},
		})
	}
	return days
}

// MarshalText lets Date serialize as YYYY-MM-DD in JSON payloads.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
