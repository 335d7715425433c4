package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Joseda-hg/eventflow/internal/model"
)

var (
	ErrMissingField = errors.New("please fill in all required fields")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidTime  = errors.New("invalid time")
	ErrInvalidRange = errors.New("end time must be after start time")
	ErrOverlap      = errors.New("this time slot overlaps with an existing event")
	ErrNotFound     = errors.New("event not found")
)

// ValidationError reports why an event was rejected. Kind is one of the
// sentinel errors above and is what errors.Is matches against.
type ValidationError struct {
	Kind     error
	Fields   []string
	Conflict *model.Event
}

func (e *ValidationError) Error() string {
	switch {
	case e.Conflict != nil:
		return fmt.Sprintf("%s (%s %s-%s)", e.Kind, e.Conflict.Title, e.Conflict.StartTime, e.Conflict.EndTime)
	case len(e.Fields) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Fields, ", "))
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// KindName is the short machine name used by the JSON API.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrOverlap):
		return "overlap"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// StorageReadError means the persisted collection could not be decoded. The
// store recovers from it with an empty collection.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read stored events %q: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}
