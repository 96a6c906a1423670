package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a VIN exists in no source. It is a typed
// absence: callers render a not-found state instead of catching panics.
var ErrNotFound = errors.New("listing not found")

// ErrSourceUnavailable marks a backing store failure. The resolver recovers
// from it by falling through to the next source; it only reaches a caller
// when every source has failed.
var ErrSourceUnavailable = errors.New("source unavailable")

// ValidationError rejects malformed input before any pipeline stage runs
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-level validation failure
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
