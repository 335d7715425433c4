package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/export"
	"github.com/Joseda-hg/eventflow/internal/form"
	"github.com/Joseda-hg/eventflow/internal/model"
	"github.com/Joseda-hg/eventflow/internal/presenter"
	"github.com/Joseda-hg/eventflow/internal/store"
)

const (
	viewHeader   = "header"
	viewWeekdays = "weekdays"
	viewGrid     = "grid"
	viewAgenda   = "agenda"
	viewDetail   = "detail"
	viewFooter   = "footer"
	viewSearch   = "search"
	viewForm     = "form"
	viewHelp     = "help"
	viewList     = "list"
)

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// HistoryLister returns the journal of one event, newest first.
type HistoryLister interface {
	ListHistory(ctx context.Context, eventID string) ([]model.HistoryEntry, error)
}

type Options struct {
	History      HistoryLister
	Log          zerolog.Logger
	Now          func() time.Time
	ExportDir    string
	ExportFormat export.Format
}

type UI struct {
	store   *store.Store
	history HistoryLister
	log     zerolog.Logger
	gui     *gocui.Gui

	grid     *presenter.MonthGrid
	calendar *presenter.Calendar
	form     *form.Form

	exportDir    string
	exportFormat export.Format

	cursor        calendar.Date
	focus         string
	days          []calendar.CalendarDay
	agenda        []model.Event
	selectedEvent int
	entries       []model.HistoryEntry
	carrying      *model.Event

	formIndex    int
	formEditor   *formEditor
	searchActive bool
	helpActive   bool
	listActive   bool
	status       string
}

func dayView(index int) string {
	return fmt.Sprintf("day-%d", index)
}

func newUI(events *store.Store, opts Options) *UI {
	grid := presenter.NewMonthGrid(opts.Now)
	f := form.New(events)
	ui := &UI{
		store:        events,
		history:      opts.History,
		log:          opts.Log,
		grid:         grid,
		form:         f,
		calendar:     &presenter.Calendar{Grid: grid, Form: f, Store: events},
		exportDir:    opts.ExportDir,
		exportFormat: opts.ExportFormat,
		cursor:       grid.Today(),
		focus:        viewGrid,
	}
	if ui.exportFormat == "" {
		ui.exportFormat = export.FormatJSON
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

func Run(events *store.Store, opts Options) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(events, opts)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadEvents(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.forceQuit},
		{'q', u.quit},
		{'[', u.prevMonth},
		{']', u.nextMonth},
		{'t', u.goToday},
		{'a', u.newEvent},
		{'e', u.editEvent},
		{'d', u.deleteEvent},
		{'m', u.pickUpOrDrop},
		{'/', u.startSearch},
		{'g', u.clearSearch},
		{'L', u.toggleList},
		{'x', u.exportMonth},
		{'?', u.toggleHelp},
		{gocui.KeyTab, u.switchFocus},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	grid := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyArrowLeft, u.moveLeft},
		{'h', u.moveLeft},
		{gocui.KeyArrowRight, u.moveRight},
		{'l', u.moveRight},
		{gocui.KeyArrowUp, u.moveUp},
		{'k', u.moveUp},
		{gocui.KeyArrowDown, u.moveDown},
		{'j', u.moveDown},
		{gocui.KeyEnter, u.newEvent},
		{gocui.KeyEsc, u.cancelMove},
	}
	for _, binding := range grid {
		if err := gui.SetKeybinding(viewGrid, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	agenda := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyArrowDown, u.nextEvent},
		{'j', u.nextEvent},
		{gocui.KeyArrowUp, u.prevEvent},
		{'k', u.prevEvent},
		{gocui.KeyEnter, u.editEvent},
		{gocui.KeyEsc, u.cancelMove},
	}
	for _, binding := range agenda {
		if err := gui.SetKeybinding(viewAgenda, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	if err := gui.SetKeybinding(viewSearch, gocui.KeyEnter, gocui.ModNone, u.submitSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEsc, gocui.ModNone, u.cancelSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyCtrlD, gocui.ModNone, u.deleteFromForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	for _, name := range []string{viewHelp, viewList} {
		if err := gui.SetKeybinding(name, gocui.KeyEsc, gocui.ModNone, u.closePopup); err != nil {
			return err
		}
	}

	for i := 0; i < calendar.GridSize; i++ {
		index := i
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: dayView(index), Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.selectDay(gui, index)
		}}); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := maxY - 1
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom-bodyTop < 8 {
		return nil
	}

	l := computeLayout(maxX, bodyBottom-bodyTop+1)

	weekdaysView, err := gui.SetView(viewWeekdays, 0, bodyTop, l.gridWidth-1, bodyTop+1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	weekdaysView.Frame = false
	weekdaysView.Clear()
	for _, label := range weekdayLabels {
		fmt.Fprint(weekdaysView, padRight(label, l.cellWidth))
	}

	gridTop := bodyTop + 1
	gridView, err := gui.SetView(viewGrid, 0, gridTop, l.gridWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	gridView.Frame = false
	gridView.Clear()

	carryingID := ""
	if u.carrying != nil {
		carryingID = u.carrying.ID
	}
	for index, day := range u.days {
		row, col := index/7, index%7
		x0 := col * l.cellWidth
		y0 := gridTop + row*l.cellHeight
		view, err := gui.SetView(dayView(index), x0, y0, x0+l.cellWidth-1, y0+l.cellHeight-1, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		view.Frame = true
		view.FgColor = gocui.ColorDefault
		if !day.IsCurrentMonth {
			view.FgColor = gocui.ColorDefault | gocui.AttrDim
		}
		view.FrameColor = gocui.ColorDefault
		if day.IsToday {
			view.FrameColor = gocui.ColorGreen
		}
		if day.Date == u.cursor {
			view.FrameColor = gocui.ColorCyan
			if u.carrying != nil {
				view.FrameColor = gocui.ColorYellow
			}
		}
		view.Clear()
		for _, line := range cellLines(day, l.cellWidth-2, l.cellHeight-2, carryingID) {
			fmt.Fprintln(view, line)
		}
	}

	sideX0 := l.gridWidth + 1
	agendaY1 := bodyTop + l.agendaHeight - 1
	agendaView, err := gui.SetView(viewAgenda, sideX0, bodyTop, maxX-1, agendaY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	agendaView.Title = u.cursor.Long()
	applyViewStyle(agendaView, u.focus == viewAgenda, true)
	u.renderAgenda(agendaView, l.sideWidth-2)

	detailView, err := gui.SetView(viewDetail, sideX0, agendaY1+1, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Details"
		detailView.Wrap = true
	}
	applyViewStyle(detailView, false, false)
	detailView.Clear()
	fmt.Fprint(detailView, strings.Join(detailLines(u.selectedAgendaEvent(), u.entries), "\n"))

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.searchActive {
		if err := u.showSearch(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if u.form.IsOpen() {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.listActive {
		if err := u.showList(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewList)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if !u.inputActive() {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.searchActive || u.form.IsOpen()

	return nil
}

type layout struct {
	gridWidth    int
	cellWidth    int
	cellHeight   int
	sideWidth    int
	agendaHeight int
}

// computeLayout splits the body into the 7x6 grid on the left and the
// agenda/detail column on the right.
func computeLayout(width, height int) layout {
	safeWidth := max(width, 7*8+24)
	safeHeight := max(height, 6*3+1)

	sideWidth := safeWidth / 3
	if sideWidth < 24 {
		sideWidth = 24
	}
	cellWidth := max((safeWidth-sideWidth-1)/7, 8)
	gridWidth := cellWidth * 7
	sideWidth = safeWidth - gridWidth - 1

	cellHeight := max((safeHeight-1)/6, 3)

	agendaHeight := safeHeight / 2
	if agendaHeight < 4 {
		agendaHeight = 4
	}

	return layout{
		gridWidth:    gridWidth,
		cellWidth:    cellWidth,
		cellHeight:   cellHeight,
		sideWidth:    sideWidth,
		agendaHeight: agendaHeight,
	}
}

// loadEvents rebuilds the grid for the focused month and the agenda for the
// cursor day.
func (u *UI) loadEvents() error {
	events := u.store.List()
	u.days = u.grid.Days(events)

	u.agenda = u.agenda[:0]
	for _, day := range u.days {
		if day.Date == u.cursor {
			u.agenda = append(u.agenda, presenter.Chronological(day.Events)...)
			break
		}
	}
	if u.selectedEvent >= len(u.agenda) {
		u.selectedEvent = max(len(u.agenda)-1, 0)
	}
	return u.loadHistory()
}

func (u *UI) loadHistory() error {
	selected := u.selectedAgendaEvent()
	if selected == nil || u.history == nil {
		u.entries = nil
		return nil
	}

	entries, err := u.history.ListHistory(context.Background(), selected.ID)
	if err != nil {
		return err
	}
	u.entries = entries
	return nil
}

func (u *UI) selectedAgendaEvent() *model.Event {
	if u.selectedEvent >= 0 && u.selectedEvent < len(u.agenda) {
		return &u.agenda[u.selectedEvent]
	}
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	search := strings.TrimSpace(u.grid.Search)
	if search == "" {
		search = "type / to search"
	}
	fmt.Fprintf(view, "%s | %d events this month | Search: %s", u.grid.Title(), u.grid.EventCount(u.store.List()), search)
	if u.carrying != nil {
		fmt.Fprintf(view, " | Moving: %s", u.carrying.Title)
	}
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)

	fmt.Fprintln(view, "arrows/hjkl day | [ ] month | t today | a/enter new | tab agenda | e edit | d delete | m move")
	fmt.Fprintln(view, "/ search | g clear | L list | x export | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderAgenda(view *gocui.View, width int) {
	view.Clear()
	if len(u.agenda) == 0 {
		fmt.Fprint(view, "No events")
		return
	}
	focused := u.focus == viewAgenda
	for i, ev := range u.agenda {
		prefix := " "
		if i == u.selectedEvent {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		line := fmt.Sprintf("%s [%s] %s", prefix, colorMarker(ev.Color), formatEventSummary(ev))
		fmt.Fprintln(view, truncate(line, width))
	}
	if focused {
		view.SetCursor(0, min(u.selectedEvent, len(u.agenda)-1))
	}
}

func (u *UI) setCurrent(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_, _ = gui.SetCurrentView(name)
}

func (u *UI) setCursor(date calendar.Date) error {
	u.cursor = date
	if !u.grid.Focus.Contains(date) {
		u.grid.Focus = date.MonthOf()
	}
	u.selectedEvent = 0
	return u.loadEvents()
}

func (u *UI) moveBy(days int) error {
	if u.inputActive() {
		return nil
	}
	return u.setCursor(u.cursor.AddDays(days))
}

func (u *UI) moveLeft(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveBy(-1)
}

func (u *UI) moveRight(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveBy(1)
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveBy(-7)
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveBy(7)
}

// shiftMonth moves the focus by one month and keeps the cursor on the same
// day number, clamped to the month length.
func (u *UI) shiftMonth(next bool) error {
	if u.inputActive() {
		return nil
	}
	if next {
		u.grid.Next()
	} else {
		u.grid.Prev()
	}
	focus := u.grid.Focus
	day := min(u.cursor.Day, calendar.DaysIn(focus.Year, focus.Month))
	return u.setCursor(calendar.NewDate(focus.Year, focus.Month, day))
}

func (u *UI) nextMonth(gui *gocui.Gui, _ *gocui.View) error {
	return u.shiftMonth(true)
}

func (u *UI) prevMonth(gui *gocui.Gui, _ *gocui.View) error {
	return u.shiftMonth(false)
}

func (u *UI) goToday(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.grid.GoToday()
	return u.setCursor(u.grid.Today())
}

func (u *UI) selectDay(gui *gocui.Gui, index int) error {
	if u.inputActive() || index < 0 || index >= len(u.days) {
		return nil
	}
	u.focus = viewGrid
	u.setCurrent(gui, viewGrid)
	return u.setCursor(u.days[index].Date)
}

func (u *UI) nextEvent(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selectedEvent < len(u.agenda)-1 {
		u.selectedEvent++
		return u.loadHistory()
	}
	return nil
}

func (u *UI) prevEvent(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selectedEvent > 0 {
		u.selectedEvent--
		return u.loadHistory()
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.focus == viewGrid {
		u.focus = viewAgenda
	} else {
		u.focus = viewGrid
	}
	u.setCurrent(gui, u.focus)
	return nil
}

func (u *UI) newEvent(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.calendar.DayClick(calendar.CalendarDay{Date: u.cursor})
	u.formIndex = fieldTitle
	return nil
}

func (u *UI) editEvent(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedAgendaEvent()
	if selected == nil {
		u.status = "no event selected"
		return nil
	}
	if err := u.calendar.EventClick(*selected); err != nil {
		u.status = err.Error()
		return nil
	}
	u.formIndex = fieldTitle
	return nil
}

func (u *UI) deleteEvent(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedAgendaEvent()
	if selected == nil {
		return nil
	}
	if err := u.store.Remove(context.Background(), selected.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = fmt.Sprintf("deleted %s", selected.Title)
	return u.loadEvents()
}

// pickUpOrDrop is the keyboard drag and drop: the first press takes the
// selected event, the second drops it on the cursor day.
func (u *UI) pickUpOrDrop(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.carrying == nil {
		selected := u.selectedAgendaEvent()
		if selected == nil {
			u.status = "no event selected"
			return nil
		}
		picked := *selected
		u.carrying = &picked
		u.status = fmt.Sprintf("moving %s: pick a day and press m", picked.Title)
		return nil
	}

	carried := *u.carrying
	u.carrying = nil
	moved, err := u.calendar.Drop(context.Background(), carried.ID, u.cursor)
	if err != nil {
		u.status = err.Error()
		return u.loadEvents()
	}
	u.status = fmt.Sprintf("moved %s to %s", moved.Title, moved.Date)
	return u.loadEvents()
}

func (u *UI) cancelMove(gui *gocui.Gui, _ *gocui.View) error {
	if u.carrying == nil {
		return nil
	}
	u.carrying = nil
	u.status = "move cancelled"
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := 12
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = u.form.Title()
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, view *gocui.View) error {
	if !u.form.IsOpen() {
		return nil
	}
	saved, err := u.form.Save(context.Background())
	if err != nil {
		u.status = err.Error()
		u.renderForm(view)
		return nil
	}
	u.status = fmt.Sprintf("saved %s", saved.Title)
	u.closeForm(gui)
	return u.loadEvents()
}

func (u *UI) deleteFromForm(gui *gocui.Gui, _ *gocui.View) error {
	if _, editing := u.form.Editing(); !editing {
		return nil
	}
	if err := u.form.Delete(context.Background()); err != nil {
		u.status = err.Error()
	} else {
		u.status = "event deleted"
	}
	u.closeForm(gui)
	return u.loadEvents()
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form.Cancel()
	u.closeForm(gui)
	return nil
}

func (u *UI) closeForm(gui *gocui.Gui) {
	if gui != nil {
		_ = gui.DeleteView(viewForm)
	}
	u.setCurrent(gui, u.focus)
}

func (u *UI) startSearch(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.searchActive = true
	return nil
}

func (u *UI) showSearch(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(30, maxX/2)
	height := 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewSearch, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Search titles"
		view.Clear()
		fmt.Fprint(view, u.grid.Search)
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewSearch)
	return nil
}

func (u *UI) submitSearch(gui *gocui.Gui, view *gocui.View) error {
	term := ""
	if view != nil {
		term = view.Buffer()
	}
	u.applySearch(term)
	if gui != nil {
		_ = gui.DeleteView(viewSearch)
	}
	u.setCurrent(gui, u.focus)
	return u.loadEvents()
}

func (u *UI) applySearch(term string) {
	u.grid.Search = strings.TrimRight(term, "\r\n")
	u.searchActive = false
	u.status = ""
}

func (u *UI) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	u.searchActive = false
	if gui != nil {
		_ = gui.DeleteView(viewSearch)
	}
	u.setCurrent(gui, u.focus)
	return nil
}

func (u *UI) clearSearch(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.applySearch("")
	return u.loadEvents()
}

func (u *UI) toggleList(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.listActive {
		return nil
	}
	u.listActive = !u.listActive
	return nil
}

func (u *UI) showList(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX*2/3)
	height := max(10, maxY*2/3)
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewList, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "All events (esc/L close)"
	}
	view.Clear()
	fmt.Fprint(view, strings.Join(listLines(u.store.List(), width-2), "\n"))
	_, _ = gui.SetCurrentView(viewList)
	return nil
}

func listLines(events []model.Event, width int) []string {
	sorted := presenter.Chronological(events)
	if len(sorted) == 0 {
		return []string{"No events yet"}
	}
	lines := make([]string, 0, len(sorted))
	for _, ev := range sorted {
		lines = append(lines, truncate(fmt.Sprintf("%s %s [%s]", ev.Date, formatEventSummary(ev), ev.Color), width))
	}
	return lines
}

func (u *UI) exportMonth(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	path, err := export.ToFile(u.exportDir, u.store.List(), u.grid.Focus, u.exportFormat)
	if err != nil {
		u.log.Error().Err(err).Msg("export failed")
		u.status = err.Error()
		return nil
	}
	u.log.Info().Str("path", path).Str("month", u.grid.Focus.String()).Msg("month exported")
	u.status = fmt.Sprintf("exported %s", path)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closePopup(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	u.listActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_ = gui.DeleteView(viewList)
	}
	u.setCurrent(gui, u.focus)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 20
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) inputActive() bool {
	return u.searchActive || u.form.IsOpen() || u.helpActive || u.listActive
}

func (u *UI) quit(gui *gocui.Gui, view *gocui.View) error {
	if u.helpActive || u.listActive {
		return u.closePopup(gui, view)
	}
	if u.inputActive() {
		return nil
	}
	return gocui.ErrQuit
}

func (u *UI) forceQuit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Calendar:",
		"  arrows or h/j/k/l move the day cursor",
		"  [ previous month | ] next month | t today",
		"  mouse click selects a day",
		"",
		"Events:",
		"  a or enter new event on the cursor day",
		"  tab switch between grid and agenda",
		"  e edit | d delete the selected agenda event",
		"  m pick up the selected event, m again drops it on the cursor day",
		"  esc cancels a move",
		"",
		"Form:",
		"  tab/arrows change field | space/left/right cycle color",
		"  enter save | ctrl+d delete | esc cancel",
		"",
		"Other:",
		"  / search titles | g clear search | L all events | x export month",
		"  ? help | esc close popup | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}

func padRight(value string, width int) string {
	value = truncate(value, width)
	return value + strings.Repeat(" ", max(width-len([]rune(value)), 0))
}
