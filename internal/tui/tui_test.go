package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jesseduffield/gocui"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/db"
	"github.com/Joseda-hg/eventflow/internal/export"
	"github.com/Joseda-hg/eventflow/internal/model"
	"github.com/Joseda-hg/eventflow/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
}

func TestCursorCrossesMonthBoundary(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	ui := newTestUI(events, backend, "")

	if ui.cursor.String() != "2024-03-15" {
		t.Fatalf("expected cursor on today, got %s", ui.cursor)
	}
	for i := 0; i < 3; i++ {
		if err := ui.moveDown(nil, nil); err != nil {
			t.Fatalf("move down: %v", err)
		}
	}
	if ui.cursor.String() != "2024-04-05" || ui.grid.Focus.String() != "2024-04" {
		t.Fatalf("expected April 5 in April, got %s in %s", ui.cursor, ui.grid.Focus)
	}

	if err := ui.goToday(nil, nil); err != nil {
		t.Fatalf("today: %v", err)
	}
	if ui.grid.Focus.String() != "2024-03" {
		t.Fatalf("expected March after today, got %s", ui.grid.Focus)
	}
}

func TestShiftMonthClampsDay(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	ui := newTestUI(events, backend, "")

	if err := ui.setCursor(calendar.NewDate(2024, time.January, 31)); err != nil {
		t.Fatalf("set cursor: %v", err)
	}
	if err := ui.nextMonth(nil, nil); err != nil {
		t.Fatalf("next month: %v", err)
	}
	if ui.cursor.String() != "2024-02-29" {
		t.Fatalf("expected leap day, got %s", ui.cursor)
	}
	if err := ui.prevMonth(nil, nil); err != nil {
		t.Fatalf("prev month: %v", err)
	}
	if ui.cursor.String() != "2024-01-29" {
		t.Fatalf("expected January 29, got %s", ui.cursor)
	}
}

func TestFormSaveThroughUI(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	ui := newTestUI(events, backend, "")

	if err := ui.newEvent(nil, nil); err != nil {
		t.Fatalf("new event: %v", err)
	}
	if !ui.form.IsOpen() || ui.form.Date() != ui.cursor {
		t.Fatalf("expected form open on cursor day")
	}

	for _, ch := range "Lunch" {
		ui.editField(0, ch, gocui.ModNone)
	}
	ui.formIndex = fieldColor
	ui.editField(gocui.KeySpace, 0, gocui.ModNone)

	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.form.IsOpen() {
		t.Fatalf("expected form to close, status %q", ui.status)
	}
	if len(ui.agenda) != 1 || ui.agenda[0].Title != "Lunch" || ui.agenda[0].Color != model.ColorWork {
		t.Fatalf("unexpected agenda %+v", ui.agenda)
	}
	if len(ui.entries) != 1 || ui.entries[0].EventType != "created" {
		t.Fatalf("expected created history entry, got %+v", ui.entries)
	}
}

func TestFormOverlapKeepsFormOpen(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	mustCreate(t, events, model.Event{Title: "Busy", Date: "2024-03-15", StartTime: "09:30", EndTime: "10:30"})
	ui := newTestUI(events, backend, "")

	if err := ui.newEvent(nil, nil); err != nil {
		t.Fatalf("new event: %v", err)
	}
	ui.form.Fields.Title = "Clash"
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !ui.form.IsOpen() {
		t.Fatalf("expected form to stay open")
	}
	if !strings.Contains(ui.status, "overlaps") {
		t.Fatalf("expected overlap status, got %q", ui.status)
	}
	if err := ui.quit(nil, nil); err != nil {
		t.Fatalf("expected q to be ignored while the form is open, got %v", err)
	}

	if err := ui.cancelForm(nil, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ui.form.IsOpen() {
		t.Fatalf("expected form closed after cancel")
	}
}

func TestEditAndDeleteFromForm(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	mustCreate(t, events, model.Event{Title: "Review", Date: "2024-03-15", StartTime: "09:00", EndTime: "10:00"})
	ui := newTestUI(events, backend, "")

	if err := ui.editEvent(nil, nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, editing := ui.form.Editing(); !editing {
		t.Fatalf("expected edit mode")
	}
	ui.formIndex = fieldEnd
	ui.editField(gocui.KeyCtrlU, 0, gocui.ModNone)
	for _, ch := range "10:30" {
		ui.editField(0, ch, gocui.ModNone)
	}
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.agenda[0].EndTime != "10:30" {
		t.Fatalf("expected end time 10:30, got %s", ui.agenda[0].EndTime)
	}

	if err := ui.editEvent(nil, nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := ui.deleteFromForm(nil, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(events.List()) != 0 || len(ui.agenda) != 0 {
		t.Fatalf("expected event deleted")
	}
}

func TestKeyboardMove(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	a := mustCreate(t, events, model.Event{Title: "A", Date: "2024-03-15", StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, events, model.Event{Title: "B", Date: "2024-03-16", StartTime: "09:30", EndTime: "10:30"})
	ui := newTestUI(events, backend, "")

	t.Run("occupied day rejected", func(t *testing.T) {
		if err := ui.pickUpOrDrop(nil, nil); err != nil {
			t.Fatalf("pick up: %v", err)
		}
		if ui.carrying == nil || ui.carrying.ID != a.ID {
			t.Fatalf("expected A to be carried")
		}
		if err := ui.moveRight(nil, nil); err != nil {
			t.Fatalf("move: %v", err)
		}
		if err := ui.pickUpOrDrop(nil, nil); err != nil {
			t.Fatalf("drop: %v", err)
		}
		if !strings.Contains(ui.status, "overlaps") {
			t.Fatalf("expected overlap status, got %q", ui.status)
		}
		if got, _ := events.Get(a.ID); got.Date != "2024-03-15" {
			t.Fatalf("expected A to stay, got %s", got.Date)
		}
	})

	t.Run("free day accepted", func(t *testing.T) {
		if err := ui.moveLeft(nil, nil); err != nil {
			t.Fatalf("move: %v", err)
		}
		if err := ui.pickUpOrDrop(nil, nil); err != nil {
			t.Fatalf("pick up: %v", err)
		}
		if err := ui.moveDown(nil, nil); err != nil {
			t.Fatalf("move: %v", err)
		}
		if err := ui.pickUpOrDrop(nil, nil); err != nil {
			t.Fatalf("drop: %v", err)
		}
		if got, _ := events.Get(a.ID); got.Date != "2024-03-22" {
			t.Fatalf("expected A on March 22, got %s", got.Date)
		}
		if ui.carrying != nil {
			t.Fatalf("expected nothing carried after drop")
		}
	})
}

func TestSearchFiltersAgenda(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	mustCreate(t, events, model.Event{Title: "Standup", Date: "2024-03-15", StartTime: "09:00", EndTime: "09:15"})
	mustCreate(t, events, model.Event{Title: "Lunch", Date: "2024-03-15", StartTime: "12:00", EndTime: "13:00"})
	ui := newTestUI(events, backend, "")

	ui.applySearch("LUN\n")
	if err := ui.loadEvents(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ui.agenda) != 1 || ui.agenda[0].Title != "Lunch" {
		t.Fatalf("expected only Lunch, got %+v", ui.agenda)
	}

	if err := ui.clearSearch(nil, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(ui.agenda) != 2 || ui.agenda[0].Title != "Standup" {
		t.Fatalf("expected both events in time order, got %+v", ui.agenda)
	}
}

func TestExportMonthWritesFile(t *testing.T) {
	events, backend, cleanup := newTestStore(t)
	defer cleanup()
	mustCreate(t, events, model.Event{Title: "March", Date: "2024-03-15", StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, events, model.Event{Title: "April", Date: "2024-04-15", StartTime: "09:00", EndTime: "10:00"})
	dir := t.TempDir()
	ui := newTestUI(events, backend, dir)

	if err := ui.exportMonth(nil, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "events-2024-03.json"))
	if err != nil {
		t.Fatalf("read export: %v (status %q)", err, ui.status)
	}
	if !strings.Contains(string(data), "March") || strings.Contains(string(data), "April") {
		t.Fatalf("unexpected export %s", data)
	}
}

func TestCellLinesTruncate(t *testing.T) {
	day := calendar.CalendarDay{
		Date:    calendar.NewDate(2024, time.March, 5),
		IsToday: true,
		Events: []model.Event{
			{ID: "1", Title: "会議の準備をする", StartTime: "09:00", Color: model.ColorWork},
			{ID: "2", Title: "Lunch", StartTime: "12:00"},
			{ID: "3", Title: "Gym", StartTime: "18:00"},
		},
	}

	lines := cellLines(day, 10, 3, "1")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	for _, line := range lines {
		if runewidth.StringWidth(line) > 10 {
			t.Fatalf("line %q wider than 10 columns", line)
		}
	}
	if !strings.HasPrefix(lines[1], "»") {
		t.Fatalf("expected carried marker, got %q", lines[1])
	}
	if lines[2] != "+2 more" {
		t.Fatalf("expected overflow line, got %q", lines[2])
	}
}

func TestComputeLayoutMinimums(t *testing.T) {
	l := computeLayout(10, 5)
	if l.cellWidth < 8 || l.cellHeight < 3 {
		t.Fatalf("expected minimum cell size, got %+v", l)
	}
	if l.gridWidth != l.cellWidth*7 {
		t.Fatalf("expected grid to be 7 cells wide, got %+v", l)
	}

	wide := computeLayout(200, 60)
	if wide.gridWidth+1+wide.sideWidth != 200 {
		t.Fatalf("expected columns to fill the width, got %+v", wide)
	}
}

func mustCreate(t *testing.T, events *store.Store, ev model.Event) model.Event {
	t.Helper()
	created, err := events.Create(context.Background(), ev)
	if err != nil {
		t.Fatalf("create %s: %v", ev.Title, err)
	}
	return created
}

func newTestUI(events *store.Store, backend *db.Store, exportDir string) *UI {
	ui := newUI(events, Options{
		History:      backend,
		Log:          zerolog.Nop(),
		Now:          fixedNow,
		ExportDir:    exportDir,
		ExportFormat: export.FormatJSON,
	})
	_ = ui.loadEvents()
	return ui
}

func newTestStore(t *testing.T) (*store.Store, *db.Store, func()) {
	t.Helper()
	dbConn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	backend := db.NewStore(dbConn)
	events, err := store.New(context.Background(), backend, store.WithJournal(backend))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return events, backend, func() {
		_ = dbConn.Close()
	}
}
