package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/eventflow/internal/db"
	"github.com/Joseda-hg/eventflow/internal/model"
)

const DefaultKey = "events"

// Backend loads and saves the serialized collection under a key. A missing
// key is reported as db.ErrNotFound.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Journal records mutations. It is optional.
type Journal interface {
	AddHistory(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error)
}

// Store owns the event collection. Every mutation is validated, persisted and
// only then made visible.
type Store struct {
	mu      sync.Mutex
	backend Backend
	journal Journal
	log     zerolog.Logger
	key     string
	newID   func() string
	events  []model.Event
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithJournal(journal Journal) Option {
	return func(s *Store) { s.journal = journal }
}

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New builds a store and loads the persisted collection. Missing or corrupt
// data yields an empty collection; any other backend error is returned.
func New(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		log:     zerolog.Nop(),
		key:     DefaultKey,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := backend.Load(ctx, s.key)
	switch {
	case errors.Is(err, db.ErrNotFound):
		data = nil
	case err != nil:
		return nil, fmt.Errorf("load events: %w", err)
	}

	events, err := decodeEvents(s.key, data)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("stored events unreadable, starting empty")
		events = nil
	}
	s.events = events
	s.log.Debug().Int("count", len(s.events)).Msg("events loaded")
	return s, nil
}

func decodeEvents(key string, data []byte) ([]model.Event, error) {
	if data == nil {
		return nil, nil
	}
	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, &StorageReadError{Key: key, Err: err}
	}
	for i := range events {
		events[i].Color = model.ParseColor(string(events[i].Color))
	}
	return events, nil
}

func (s *Store) List() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...)
}

func (s *Store) Get(id string) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.indexOf(id)
	if index < 0 {
		return model.Event{}, false
	}
	return s.events[index], true
}

// Create stores ev under a freshly generated id.
func (s *Store) Create(ctx context.Context, ev model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = s.newID()
	ev.Color = model.ParseColor(string(ev.Color))
	if err := Validate(ev, s.events); err != nil {
		return model.Event{}, err
	}

	next := make([]model.Event, 0, len(s.events)+1)
	next = append(next, s.events...)
	next = append(next, ev)
	if err := s.commit(ctx, next); err != nil {
		return model.Event{}, err
	}

	s.record(ctx, ev.ID, "created", formatCreatedDetails(ev))
	return ev, nil
}

func (s *Store) Replace(ctx context.Context, id string, ev model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return model.Event{}, ErrNotFound
	}
	before := s.events[index]

	ev.ID = id
	ev.Color = model.ParseColor(string(ev.Color))
	if err := Validate(ev, s.events); err != nil {
		return model.Event{}, err
	}

	next := append([]model.Event(nil), s.events...)
	next[index] = ev
	if err := s.commit(ctx, next); err != nil {
		return model.Event{}, err
	}

	s.record(ctx, id, "updated", formatEventDiff(before, ev))
	return ev, nil
}

// ReassignDate moves an event to another day keeping every other field. The
// target day is checked for overlaps like any other edit.
func (s *Store) ReassignDate(ctx context.Context, id string, date string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return model.Event{}, ErrNotFound
	}
	before := s.events[index]
	if before.Date == date {
		return before, nil
	}

	moved := before
	moved.Date = date
	if err := Validate(moved, s.events); err != nil {
		return model.Event{}, err
	}

	next := append([]model.Event(nil), s.events...)
	next[index] = moved
	if err := s.commit(ctx, next); err != nil {
		return model.Event{}, err
	}

	s.record(ctx, id, "moved", formatChange("date", before.Date, moved.Date))
	return moved, nil
}

// Remove deletes the event with id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return nil
	}
	before := s.events[index]

	next := make([]model.Event, 0, len(s.events)-1)
	next = append(next, s.events[:index]...)
	next = append(next, s.events[index+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.record(ctx, id, "deleted", formatDeletedDetails(before))
	return nil
}

func (s *Store) commit(ctx context.Context, next []model.Event) error {
	if next == nil {
		next = []model.Event{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("persist events failed")
		return fmt.Errorf("persist events: %w", err)
	}
	s.events = next
	return nil
}

func (s *Store) record(ctx context.Context, id, eventType, details string) {
	s.log.Info().Str("event_id", id).Str("type", eventType).Msg(details)
	if s.journal == nil {
		return
	}
	if _, err := s.journal.AddHistory(ctx, model.HistoryEntry{
		EventID:   id,
		EventType: eventType,
		Details:   details,
	}); err != nil {
		s.log.Error().Err(err).Str("event_id", id).Msg("record history failed")
	}
}

func (s *Store) indexOf(id string) int {
	for i, ev := range s.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}
