// Package calendar holds the date arithmetic behind the month view: a civil
// Date type that never carries a timezone, the fixed 42-cell month grid and
// the same-day interval overlap check.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// Date is a plain calendar date. All arithmetic is normalized through UTC so
// the host zone and DST transitions cannot shift a day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the wall-clock date of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the host's local calendar date at now.
func Today(now time.Time) Date {
	return DateOf(now.In(time.Local))
}

func ParseDate(value string) (Date, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Date{}, fmt.Errorf("missing date")
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	return DateOf(parsed), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

func (d Date) MonthOf() Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Long renders the date the way the form header shows it, e.g.
// "Tuesday, March 5, 2024".
func (d Date) Long() string {
	return d.time().Format("Monday, January 2, 2006")
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Month identifies a displayed month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return DateOf(t).MonthOf()
}

// ParseMonth accepts "YYYY-MM".
func ParseMonth(value string) (Month, error) {
	parsed, err := time.Parse(MonthLayout, strings.TrimSpace(value))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q", value)
	}
	return Month{Year: parsed.Year(), Month: parsed.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

func (m Month) First() Date {
	return NewDate(m.Year, m.Month, 1)
}

func (m Month) Next() Month {
	return m.First().AddDays(DaysIn(m.Year, m.Month)).MonthOf()
}

func (m Month) Prev() Month {
	return m.First().AddDays(-1).MonthOf()
}

func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// ContainsDate reports whether an ISO date string falls in m. Malformed
// strings are never contained.
func (m Month) ContainsDate(value string) bool {
	d, err := ParseDate(value)
	if err != nil {
		return false
	}
	return m.Contains(d)
}
