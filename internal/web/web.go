package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/model"
	"github.com/Joseda-hg/eventflow/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	monthTemplate = template.Must(template.ParseFS(templateFS, "templates/base.tmpl", "templates/month.tmpl"))
	formTemplate  = template.Must(template.ParseFS(templateFS, "templates/base.tmpl", "templates/form.tmpl"))
	listTemplate  = template.Must(template.ParseFS(templateFS, "templates/base.tmpl", "templates/list.tmpl"))
)

// HistoryLister returns the journal of one event, newest first.
type HistoryLister interface {
	ListHistory(ctx context.Context, eventID string) ([]model.HistoryEntry, error)
}

type Server struct {
	store       *store.Store
	history     HistoryLister
	log         zerolog.Logger
	now         func() time.Time
	corsOrigins []string
}

type Option func(*Server)

func WithHistory(history HistoryLister) Option {
	return func(s *Server) { s.history = history }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithCORS enables cross-origin access for the listed origins.
func WithCORS(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

func NewServer(events *store.Store, opts ...Option) *Server {
	s := &Server{store: events, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.monthHandler).Methods(http.MethodGet)
	router.HandleFunc("/list", s.listHandler).Methods(http.MethodGet)
	router.HandleFunc("/export", s.exportHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	router.HandleFunc("/events/new", s.newEventHandler).Methods(http.MethodGet)
	router.HandleFunc("/events", s.createEventHandler).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}/edit", s.editEventHandler).Methods(http.MethodGet)
	router.HandleFunc("/events/{id}", s.updateEventHandler).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}/delete", s.deleteEventHandler).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/events", s.apiListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events", s.apiCreateEvent).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}", s.apiGetEvent).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", s.apiUpdateEvent).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}", s.apiDeleteEvent).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id}/move", s.apiMoveEvent).Methods(http.MethodPost)
	api.HandleFunc("/month", s.apiMonth).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(handler)
	handler = hlog.RequestIDHandler("req_id", "X-Request-Id")(handler)
	handler = hlog.NewHandler(s.log)(handler)

	if len(s.corsOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(handler)
	}
	return handler
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "events": len(s.store.List())})
}

// monthFromRequest reads year and month (1-12) query parameters, defaulting
// each to the current month.
func (s *Server) monthFromRequest(r *http.Request) (calendar.Month, error) {
	month := calendar.MonthOf(s.now())

	if value := strings.TrimSpace(r.URL.Query().Get("year")); value != "" {
		year, err := strconv.Atoi(value)
		if err != nil || year < 1 || year > 9999 {
			return calendar.Month{}, fmt.Errorf("invalid year %q", value)
		}
		month.Year = year
	}
	if value := strings.TrimSpace(r.URL.Query().Get("month")); value != "" {
		number, err := strconv.Atoi(value)
		if err != nil || number < 1 || number > 12 {
			return calendar.Month{}, fmt.Errorf("invalid month %q", value)
		}
		month.Month = time.Month(number)
	}
	return month, nil
}

func monthURL(month calendar.Month, search string) string {
	values := url.Values{}
	values.Set("year", strconv.Itoa(month.Year))
	values.Set("month", strconv.Itoa(int(month.Month)))
	if search != "" {
		values.Set("q", search)
	}
	return "/?" + values.Encode()
}

func monthURLForDate(date string) string {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return "/"
	}
	return monthURL(d.MonthOf(), "")
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}

type apiError struct {
	Error  string   `json:"error"`
	Kind   string   `json:"kind"`
	Fields []string `json:"fields,omitempty"`
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, err error) {
	payload := apiError{Error: err.Error(), Kind: store.KindName(err)}
	if status == http.StatusBadRequest {
		payload.Kind = "bad_request"
	}
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		payload.Fields = verr.Fields
	}
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, payload)
}
