// Package presenter turns the stored collection into what the front ends draw
// and routes their clicks and drops back into the form and the store.
package presenter

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/form"
	"github.com/Joseda-hg/eventflow/internal/model"
)

// MonthGrid is the focused month plus the active title filter.
type MonthGrid struct {
	Focus  calendar.Month
	Search string
	Now    func() time.Time
}

func NewMonthGrid(now func() time.Time) *MonthGrid {
	if now == nil {
		now = time.Now
	}
	return &MonthGrid{Focus: calendar.MonthOf(now()), Now: now}
}

func (g *MonthGrid) Today() calendar.Date {
	return calendar.Today(g.Now())
}

// Days returns the 42 cells of the focused month with matching events joined
// in by date.
func (g *MonthGrid) Days(events []model.Event) []calendar.CalendarDay {
	days := calendar.MonthDays(g.Focus.Year, g.Focus.Month, g.Today())

	index := make(map[string]int, len(days))
	for i, day := range days {
		index[day.Date.String()] = i
	}
	for _, ev := range FilterByTitle(events, g.Search) {
		if i, ok := index[ev.Date]; ok {
			days[i].Events = append(days[i].Events, ev)
		}
	}
	return days
}

func (g *MonthGrid) Next() {
	g.Focus = g.Focus.Next()
}

func (g *MonthGrid) Prev() {
	g.Focus = g.Focus.Prev()
}

// GoToday focuses the month containing today.
func (g *MonthGrid) GoToday() {
	g.Focus = g.Today().MonthOf()
}

func (g *MonthGrid) Title() string {
	return g.Focus.Title()
}

// EventCount ignores the search filter.
func (g *MonthGrid) EventCount(events []model.Event) int {
	count := 0
	for _, ev := range events {
		if g.Focus.ContainsDate(ev.Date) {
			count++
		}
	}
	return count
}

// FilterByTitle keeps events whose title contains term, ignoring case. An
// empty term keeps everything; whitespace is matched literally.
func FilterByTitle(events []model.Event, term string) []model.Event {
	needle := strings.ToLower(term)
	if needle == "" {
		return events
	}
	filtered := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Title), needle) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// Chronological returns a copy of events ordered by date then start time.
// Events with equal keys keep their stored order.
func Chronological(events []model.Event) []model.Event {
	sorted := append([]model.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date+sorted[i].StartTime < sorted[j].Date+sorted[j].StartTime
	})
	return sorted
}

// Mover is the part of store.Store a drop needs.
type Mover interface {
	ReassignDate(ctx context.Context, id string, date string) (model.Event, error)
}

// Calendar wires user intents on the grid to the form and the store.
type Calendar struct {
	Grid  *MonthGrid
	Form  *form.Form
	Store Mover
}

func (c *Calendar) DayClick(day calendar.CalendarDay) {
	c.Form.OpenNew(day.Date)
}

// EventClick opens the edit form. Front ends must not deliver the enclosing
// day click for the same gesture.
func (c *Calendar) EventClick(ev model.Event) error {
	return c.Form.OpenEdit(ev)
}

func (c *Calendar) Drop(ctx context.Context, eventID string, day calendar.Date) (model.Event, error) {
	return c.Store.ReassignDate(ctx, eventID, day.String())
}
