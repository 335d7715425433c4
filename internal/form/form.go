// Package form is the event entry dialog without any rendering: it holds the
// open/closed state, the editable fields and the save/delete transitions.
package form

import (
	"context"
	"errors"
	"strings"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/model"
	"github.com/Joseda-hg/eventflow/internal/store"
)

const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "10:00"
)

var ErrNotEditing = errors.New("no event is being edited")

type Mode int

const (
	Closed Mode = iota
	OpenNew
	OpenEditing
)

func (m Mode) String() string {
	switch m {
	case OpenNew:
		return "new"
	case OpenEditing:
		return "editing"
	default:
		return "closed"
	}
}

// EventStore is the part of store.Store the form commits through.
type EventStore interface {
	List() []model.Event
	Create(ctx context.Context, ev model.Event) (model.Event, error)
	Replace(ctx context.Context, id string, ev model.Event) (model.Event, error)
	Remove(ctx context.Context, id string) error
}

type Fields struct {
	Title       string
	Description string
	StartTime   string
	EndTime     string
	Color       model.Color
}

type Form struct {
	store   EventStore
	mode    Mode
	date    calendar.Date
	editing model.Event
	Fields  Fields
	Err     error
}

func New(store EventStore) *Form {
	return &Form{store: store}
}

func (f *Form) Mode() Mode {
	return f.mode
}

func (f *Form) IsOpen() bool {
	return f.mode != Closed
}

func (f *Form) Date() calendar.Date {
	return f.date
}

// Editing returns the event being edited; ok is false unless the form is in
// editing mode.
func (f *Form) Editing() (model.Event, bool) {
	if f.mode != OpenEditing {
		return model.Event{}, false
	}
	return f.editing, true
}

func (f *Form) Title() string {
	if f.mode == OpenEditing {
		return "Edit Event"
	}
	return "New Event"
}

func (f *Form) OpenNew(date calendar.Date) {
	f.mode = OpenNew
	f.date = date
	f.editing = model.Event{}
	f.Fields = Fields{
		StartTime: DefaultStartTime,
		EndTime:   DefaultEndTime,
		Color:     model.ColorDefault,
	}
	f.Err = nil
}

func (f *Form) OpenEdit(ev model.Event) error {
	date, err := calendar.ParseDate(ev.Date)
	if err != nil {
		return err
	}
	f.mode = OpenEditing
	f.date = date
	f.editing = ev
	f.Fields = Fields{
		Title:       ev.Title,
		Description: ev.Description,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Color:       model.ParseColor(string(ev.Color)),
	}
	f.Err = nil
	return nil
}

func (f *Form) Cancel() {
	f.close()
}

// Event builds the event the current fields describe, with clock values
// normalized where they parse.
func (f *Form) Event() model.Event {
	ev := model.Event{
		ID:          f.editing.ID,
		Title:       strings.TrimSpace(f.Fields.Title),
		Description: strings.TrimSpace(f.Fields.Description),
		Date:        f.date.String(),
		StartTime:   normalizeClock(f.Fields.StartTime),
		EndTime:     normalizeClock(f.Fields.EndTime),
		Color:       model.ParseColor(string(f.Fields.Color)),
	}
	return ev
}

// Save validates the fields and commits them. On failure the form stays open
// and Err holds the message to show next to the fields.
func (f *Form) Save(ctx context.Context) (model.Event, error) {
	if !f.IsOpen() {
		return model.Event{}, errors.New("form is closed")
	}

	ev := f.Event()
	if err := store.Validate(ev, f.store.List()); err != nil {
		f.Err = err
		return model.Event{}, err
	}

	var saved model.Event
	var err error
	if f.mode == OpenEditing {
		saved, err = f.store.Replace(ctx, ev.ID, ev)
	} else {
		saved, err = f.store.Create(ctx, ev)
	}
	if err != nil {
		f.Err = err
		return model.Event{}, err
	}

	f.close()
	return saved, nil
}

// Delete removes the edited event and closes the form.
func (f *Form) Delete(ctx context.Context) error {
	if f.mode != OpenEditing {
		return ErrNotEditing
	}
	id := f.editing.ID
	f.close()
	return f.store.Remove(ctx, id)
}

// CycleColor moves the color field delta steps through model.Colors.
func (f *Form) CycleColor(delta int) {
	index := 0
	for i, color := range model.Colors {
		if color == model.ParseColor(string(f.Fields.Color)) {
			index = i
			break
		}
	}
	count := len(model.Colors)
	index = ((index+delta)%count + count) % count
	f.Fields.Color = model.Colors[index]
}

func (f *Form) close() {
	f.mode = Closed
	f.editing = model.Event{}
	f.Err = nil
}

func normalizeClock(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if clock, err := calendar.ParseClock(trimmed); err == nil {
		return clock
	}
	return trimmed
}
