package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common domain errors used across the application.
var (
	// ErrValidation is the root of every validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or nil.
	ErrInvalidID = errors.New("invalid ID")


	// ErrInvalidTaskStatus is returned for a status outside the state machine.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTaskAction is returned for an action other than next or previous.
	ErrInvalidTaskAction = errors.New("invalid task action")
)

// ValidationError describes a single invalid field.
// It always matches ErrValidation under errors.Is, and additionally matches
// the more specific error it wraps.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError. A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation as a match regardless of the wrapped error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ParseID parses a UUID string, rejecting malformed and nil IDs.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationError(field, "must be a valid UUID", ErrInvalidID)
	}
	if id == uuid.Nil {
		return uuid.Nil, NewValidationError(field, "cannot be empty", ErrInvalidID)
	}
	return id, nil
}

// RequireID rejects uuid.Nil.
func RequireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return NewValidationError(field, "cannot be empty", ErrInvalidID)
	}
	return nil
}
