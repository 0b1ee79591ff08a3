package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a mutation targets a record that does not
	// exist or does not belong to the given owner.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps failures to reach the underlying database.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports caller input that fails a required-field or shape
// constraint. Field names the offending field so the presentation layer can
// build a message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
