package drill

import (
	"errors"
	"fmt"
)

// Common error types for the drill service
var (
	// ErrSessionComplete indicates the student has advanced past the last
	// scenario; only Reset leaves this state.
	ErrSessionComplete = errors.New("all scenarios complete")

	// ErrInvalidIdentity indicates a blank or malformed student identity.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// ServiceError wraps errors from the drill service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "check", "advance")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
