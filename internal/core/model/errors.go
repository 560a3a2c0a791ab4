package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrUnauthorized is returned when the caller has no or insufficient session.
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrDuplicate is returned when an entity conflicts with an existing one.
	ErrDuplicate = errors.New("entity already exists")
)

// ValidationError reports a missing or malformed request field. It is
// user-correctable and maps to a 400-equivalent response.
type ValidationError struct {
	// Field is the offending field name.
	Field string

	// Reason describes what is wrong with the field.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// MissingField builds a ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "missing required field"}
}

// StorageError wraps a persistence-layer failure so that callers can
// distinguish infrastructure failures from client mistakes.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
