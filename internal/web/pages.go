package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/export"
	"github.com/Joseda-hg/eventflow/internal/form"
	"github.com/Joseda-hg/eventflow/internal/model"
	"github.com/Joseda-hg/eventflow/internal/presenter"
	"github.com/Joseda-hg/eventflow/internal/store"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type monthPage struct {
	Title     string
	Count     int
	Search    string
	Year      int
	Month     int
	PrevURL   string
	NextURL   string
	TodayURL  string
	ExportURL string
	Formats   []export.Format
	Weekdays  []string
	Weeks     [][]calendar.CalendarDay
}

type formPage struct {
	Title     string
	Heading   string
	DateLong  string
	Date      string
	Action    string
	DeleteURL string
	BackURL   string
	Fields    form.Fields
	Colors    []model.Color
	Error     string
	History   []model.HistoryEntry
}

type listPage struct {
	Title  string
	Events []model.Event
}

func (s *Server) monthHandler(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	search := r.URL.Query().Get("q")
	grid := &presenter.MonthGrid{Focus: month, Search: search, Now: s.now}
	events := s.store.List()
	days := grid.Days(events)

	weeks := make([][]calendar.CalendarDay, 0, len(days)/7)
	for i := 0; i < len(days); i += 7 {
		weeks = append(weeks, days[i:i+7])
	}

	data := monthPage{
		Title:     grid.Title(),
		Count:     grid.EventCount(events),
		Search:    search,
		Year:      month.Year,
		Month:     int(month.Month),
		PrevURL:   monthURL(month.Prev(), search),
		NextURL:   monthURL(month.Next(), search),
		TodayURL:  monthURL(calendar.MonthOf(s.now()), search),
		ExportURL: fmt.Sprintf("/export?year=%d&month=%d", month.Year, int(month.Month)),
		Formats:   export.Formats,
		Weekdays:  weekdays,
		Weeks:     weeks,
	}

	if err := monthTemplate.ExecuteTemplate(w, "base", data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	data := listPage{Title: "All events", Events: presenter.Chronological(s.store.List())}
	if err := listTemplate.ExecuteTemplate(w, "base", data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events := export.MonthEvents(s.store.List(), month)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(month, format)))
	if err := export.Write(w, events, format); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("export failed")
	}
}

func (s *Server) newEventHandler(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		date = calendar.Today(s.now())
	}

	f := form.New(s.store)
	f.OpenNew(date)
	s.renderForm(w, r, f, http.StatusOK)
}

func (s *Server) createEventHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	date, err := calendar.ParseDate(r.PostForm.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	f := form.New(s.store)
	f.OpenNew(date)
	fillFields(f, r)
	s.saveForm(w, r, f)
}

func (s *Server) editEventHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.openEditForm(w, r)
	if !ok {
		return
	}
	s.renderForm(w, r, f, http.StatusOK)
}

func (s *Server) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.openEditForm(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fillFields(f, r)
	s.saveForm(w, r, f)
}

func (s *Server) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.openEditForm(w, r)
	if !ok {
		return
	}
	back := monthURLForDate(f.Date().String())
	if err := f.Delete(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) openEditForm(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	ev, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, store.ErrNotFound)
		return nil, false
	}
	f := form.New(s.store)
	if err := f.OpenEdit(ev); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return f, true
}

func (s *Server) saveForm(w http.ResponseWriter, r *http.Request, f *form.Form) {
	saved, err := f.Save(r.Context())
	if err != nil {
		var verr *store.ValidationError
		if !errors.As(err, &verr) {
			hlog.FromRequest(r).Error().Err(err).Msg("save event failed")
		}
		s.renderForm(w, r, f, statusFor(err))
		return
	}
	http.Redirect(w, r, monthURLForDate(saved.Date), http.StatusSeeOther)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, f *form.Form, status int) {
	data := formPage{
		Title:    f.Title(),
		Heading:  f.Title(),
		DateLong: f.Date().Long(),
		Date:     f.Date().String(),
		Action:   "/events",
		BackURL:  monthURL(f.Date().MonthOf(), ""),
		Fields:   f.Fields,
		Colors:   model.Colors,
	}
	if f.Err != nil {
		data.Error = f.Err.Error()
	}
	if ev, ok := f.Editing(); ok {
		data.Action = "/events/" + ev.ID
		data.DeleteURL = "/events/" + ev.ID + "/delete"
		if s.history != nil {
			if history, err := s.history.ListHistory(r.Context(), ev.ID); err == nil {
				data.History = history
			} else {
				hlog.FromRequest(r).Warn().Err(err).Str("event_id", ev.ID).Msg("load history failed")
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.ExecuteTemplate(w, "base", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render form failed")
	}
}

func fillFields(f *form.Form, r *http.Request) {
	f.Fields.Title = r.PostForm.Get("title")
	f.Fields.Description = r.PostForm.Get("description")
	f.Fields.StartTime = r.PostForm.Get("startTime")
	f.Fields.EndTime = r.PostForm.Get("endTime")
	f.Fields.Color = model.ParseColor(r.PostForm.Get("color"))
}
