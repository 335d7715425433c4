package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks ev against existing in a fixed order and returns the first
// failure: required fields, date/time format, time ordering, overlap. Events
// in existing with ev.ID are ignored so an edit never conflicts with itself.
func Validate(ev model.Event, existing []model.Event) error {
	if err := checkFields(ev); err != nil {
		return err
	}

	if ev.StartTime >= ev.EndTime {
		return &ValidationError{Kind: ErrInvalidRange, Fields: []string{"startTime", "endTime"}}
	}

	for _, other := range existing {
		if ev.ID != "" && other.ID == ev.ID {
			continue
		}
		if calendar.Overlaps(other, ev) {
			conflict := other
			return &ValidationError{Kind: ErrOverlap, Conflict: &conflict}
		}
	}

	return nil
}

// checkFields maps struct tag failures onto the validation kinds. Missing
// fields win over malformed ones; among malformed fields the first in struct
// order is reported.
func checkFields(ev model.Event) error {
	err := validate.Struct(ev)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "notblank" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: ErrMissingField, Fields: missing}
	}

	fe := fieldErrs[0]
	if fe.Field() == "date" {
		return &ValidationError{Kind: ErrInvalidDate, Fields: []string{"date"}}
	}
	return &ValidationError{Kind: ErrInvalidTime, Fields: []string{fe.Field()}}
}
