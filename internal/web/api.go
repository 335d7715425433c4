package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/model"
	"github.com/Joseda-hg/eventflow/internal/presenter"
	"github.com/Joseda-hg/eventflow/internal/store"
)

type monthPayload struct {
	Year   int                    `json:"year"`
	Month  int                    `json:"month"`
	Title  string                 `json:"title"`
	Count  int                    `json:"count"`
	Search string                 `json:"search"`
	Days   []calendar.CalendarDay `json:"days"`
}

type movePayload struct {
	Date string `json:"date"`
}

func (s *Server) apiListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presenter.Chronological(s.store.List()))
}

func (s *Server) apiCreateEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	created, err := s.store.Create(r.Context(), ev)
	if err != nil {
		writeAPIError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) apiGetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ev, ok := s.store.Get(id)
	if !ok {
		writeAPIError(w, r, http.StatusNotFound, store.ErrNotFound)
		return
	}

	history := []model.HistoryEntry{}
	if s.history != nil {
		entries, err := s.history.ListHistory(r.Context(), id)
		if err != nil {
			writeAPIError(w, r, http.StatusInternalServerError, err)
			return
		}
		history = append(history, entries...)
	}

	payload := struct {
		Event   model.Event          `json:"event"`
		History []model.HistoryEntry `json:"history"`
	}{Event: ev, History: history}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) apiUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	updated, err := s.store.Replace(r.Context(), mux.Vars(r)["id"], ev)
	if err != nil {
		writeAPIError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) apiDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.Get(id); !ok {
		writeAPIError(w, r, http.StatusNotFound, store.ErrNotFound)
		return
	}
	if err := s.store.Remove(r.Context(), id); err != nil {
		writeAPIError(w, r, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiMoveEvent(w http.ResponseWriter, r *http.Request) {
	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	moved, err := s.store.ReassignDate(r.Context(), mux.Vars(r)["id"], payload.Date)
	if err != nil {
		writeAPIError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

func (s *Server) apiMonth(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthFromRequest(r)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, err)
		return
	}

	grid := &presenter.MonthGrid{Focus: month, Search: r.URL.Query().Get("q"), Now: s.now}
	events := s.store.List()
	writeJSON(w, http.StatusOK, monthPayload{
		Year:   month.Year,
		Month:  int(month.Month),
		Title:  grid.Title(),
		Count:  grid.EventCount(events),
		Search: grid.Search,
		Days:   grid.Days(events),
	})
}
