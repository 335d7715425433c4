package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Joseda-hg/eventflow/internal/model"
)

// ErrNotFound is returned by Load when no blob is stored under the key.
var ErrNotFound = errors.New("storage key not found")

// Store is the sqlite-backed local storage: one keyed blob per key plus an
// append-only mutation history.
type Store struct {
	DB  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, "SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) AddHistory(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO history (event_id, event_type, details, created_at) VALUES (?, ?, ?, ?)",
		entry.EventID, entry.EventType, entry.Details, createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("add history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.HistoryEntry{}, err
	}

	entry.ID = id
	entry.CreatedAt = createdAt.UTC()
	return entry, nil
}

// ListHistory returns the entries for one event, newest first.
func (s *Store) ListHistory(ctx context.Context, eventID string) ([]model.HistoryEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, event_id, event_type, details, created_at FROM history WHERE event_id = ? ORDER BY id DESC",
		eventID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	history := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var entry model.HistoryEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.EventType, &entry.Details, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp: %w", err)
		}
		entry.CreatedAt = parsed
		history = append(history, entry)
	}
	return history, rows.Err()
}
