package db

import (
	"context"
	"errors"
	"testing"

	"github.com/Joseda-hg/eventflow/internal/model"
)

func TestLoadMissingKey(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if _, err := store.Load(context.Background(), "events"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwritesBlob(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Save(ctx, "events", []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "events", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	data, err := store.Load(ctx, "events")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `[{"id":"a"}]` {
		t.Fatalf("expected overwritten blob, got %q", data)
	}

	var count int
	if err := store.DB.QueryRow("SELECT COUNT(*) FROM storage").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single storage row, got %d", count)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, eventType := range []string{"created", "updated", "moved"} {
		if _, err := store.AddHistory(ctx, model.HistoryEntry{EventID: "evt-1", EventType: eventType, Details: eventType}); err != nil {
			t.Fatalf("add history: %v", err)
		}
	}
	if _, err := store.AddHistory(ctx, model.HistoryEntry{EventID: "evt-2", EventType: "created"}); err != nil {
		t.Fatalf("add history: %v", err)
	}

	history, err := store.ListHistory(ctx, "evt-1")
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(history))
	}
	if history[0].EventType != "moved" || history[2].EventType != "created" {
		t.Fatalf("expected newest first, got %q ... %q", history[0].EventType, history[2].EventType)
	}
	if history[0].CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewStore(db), func() {
		_ = db.Close()
	}
}
