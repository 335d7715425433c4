package calendar

import (
	"testing"
	"time"

	"github.com/Joseda-hg/eventflow/internal/model"
)

func TestMonthDaysShape(t *testing.T) {
	today := NewDate(2024, time.March, 15)
	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			days := MonthDays(year, month, today)
			if len(days) != GridSize {
				t.Fatalf("%d-%02d: expected %d days, got %d", year, month, GridSize, len(days))
			}
			if days[0].Date.Weekday() != time.Sunday {
				t.Fatalf("%d-%02d: expected grid to start on Sunday, got %s", year, month, days[0].Date.Weekday())
			}
			inMonth := 0
			for i, day := range days {
				if i > 0 && day.Date != days[i-1].Date.AddDays(1) {
					t.Fatalf("%d-%02d: day %d is %s, expected the day after %s", year, month, i, day.Date, days[i-1].Date)
				}
				if day.IsCurrentMonth {
					inMonth++
					if day.Date.Month != month || day.Date.Year != year {
						t.Fatalf("%d-%02d: %s marked as current month", year, month, day.Date)
					}
				}
				if day.Events == nil || len(day.Events) != 0 {
					t.Fatalf("%d-%02d: expected empty events on %s", year, month, day.Date)
				}
			}
			if inMonth != DaysIn(year, month) {
				t.Fatalf("%d-%02d: expected %d current-month days, got %d", year, month, DaysIn(year, month), inMonth)
			}
		}
	}
}

func TestMonthDaysToday(t *testing.T) {
	t.Run("inside window", func(t *testing.T) {
		today := NewDate(2024, time.March, 5)
		count := 0
		for _, day := range MonthDays(2024, time.March, today) {
			if day.IsToday {
				count++
				if day.Date != today {
					t.Fatalf("expected today on %s, got %s", today, day.Date)
				}
			}
		}
		if count != 1 {
			t.Fatalf("expected exactly one today cell, got %d", count)
		}
	})

	t.Run("trailing days of previous month", func(t *testing.T) {
		today := NewDate(2024, time.February, 29)
		days := MonthDays(2024, time.March, today)
		if !days[4].IsToday || days[4].IsCurrentMonth {
			t.Fatalf("expected 2024-02-29 to be today and outside the month, got %+v", days[4])
		}
	})

	t.Run("outside window", func(t *testing.T) {
		today := NewDate(2030, time.January, 1)
		for _, day := range MonthDays(2024, time.March, today) {
			if day.IsToday {
				t.Fatalf("expected no today cell, got %s", day.Date)
			}
		}
	})
}

func TestMonthDaysFebruaryStartingSunday(t *testing.T) {
	days := MonthDays(2015, time.February, Date{})
	if days[0].Date != NewDate(2015, time.February, 1) {
		t.Fatalf("expected grid to start on the 1st, got %s", days[0].Date)
	}
	if days[41].Date != NewDate(2015, time.March, 14) {
		t.Fatalf("expected grid to end on 2015-03-14, got %s", days[41].Date)
	}
}

func TestOverlaps(t *testing.T) {
	base := model.Event{Date: "2024-03-05", StartTime: "10:00", EndTime: "11:00"}
	cases := []struct {
		name  string
		other model.Event
		want  bool
	}{
		{"touching end", model.Event{Date: "2024-03-05", StartTime: "11:00", EndTime: "12:00"}, false},
		{"touching start", model.Event{Date: "2024-03-05", StartTime: "09:00", EndTime: "10:00"}, false},
		{"partial", model.Event{Date: "2024-03-05", StartTime: "10:30", EndTime: "11:30"}, true},
		{"contained", model.Event{Date: "2024-03-05", StartTime: "10:15", EndTime: "10:45"}, true},
		{"containing", model.Event{Date: "2024-03-05", StartTime: "08:00", EndTime: "18:00"}, true},
		{"identical", base, true},
		{"other date", model.Event{Date: "2024-03-06", StartTime: "10:00", EndTime: "11:00"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(base, tc.other); got != tc.want {
				t.Fatalf("Overlaps(base, other) = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.other, base); got != tc.want {
				t.Fatalf("Overlaps(other, base) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	valid := map[string]string{
		"09:00":    "09:00",
		"9:05":     "09:05",
		" 23:59 ":  "23:59",
		"07:30:00": "07:30",
	}
	for input, want := range valid {
		got, err := ParseClock(input)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %q, want %q", input, got, want)
		}
	}

	for _, input := range []string{"", "24:00", "9", "noon", "12:5"} {
		if _, err := ParseClock(input); err == nil {
			t.Fatalf("expected ParseClock(%q) to fail", input)
		}
	}
}

func TestParseDateIsCalendarDate(t *testing.T) {
	d, err := ParseDate("2024-03-31")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if d != NewDate(2024, time.March, 31) {
		t.Fatalf("expected 2024-03-31, got %s", d)
	}
	if !MonthOf(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)).ContainsDate("2024-03-31") {
		t.Fatalf("expected March to contain 2024-03-31")
	}
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Fatalf("expected invalid date to fail")
	}
}

func TestMonthNavigation(t *testing.T) {
	m := Month{Year: 2024, Month: time.December}
	if next := m.Next(); next != (Month{Year: 2025, Month: time.January}) {
		t.Fatalf("expected 2025-01, got %s", next)
	}
	if prev := (Month{Year: 2024, Month: time.January}).Prev(); prev != (Month{Year: 2023, Month: time.December}) {
		t.Fatalf("expected 2023-12, got %s", prev)
	}
	if m.String() != "2024-12" {
		t.Fatalf("expected 2024-12, got %s", m.String())
	}
	if m.Title() != "December 2024" {
		t.Fatalf("expected 'December 2024', got %q", m.Title())
	}
	parsed, err := ParseMonth("2024-03")
	if err != nil || parsed != (Month{Year: 2024, Month: time.March}) {
		t.Fatalf("expected 2024-03, got %v (%v)", parsed, err)
	}
}
