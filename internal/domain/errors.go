package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a scenario ID is not a positive integer.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when a student identity is empty.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidAmount is returned when an amount string cannot be parsed as a number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownScenario is returned when an ID does not belong to the catalog.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrDuplicateScenario is returned when two catalog entries share an ID.
	ErrDuplicateScenario = errors.New("duplicate scenario ID")

	// ErrUnbalancedSolution is returned when a canonical solution's debits
	// and credits differ by more than the tolerance.
	ErrUnbalancedSolution = errors.New("solution debits do not equal credits")

	// ErrInvalidBondType is returned when a scenario carries an unrecognized bond type.
	ErrInvalidBondType = errors.New("invalid bond type")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap exposes ErrValidation and the wrapped cause to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
