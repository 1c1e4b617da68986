package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttemptRecord is one entry of the append-only log of verification outcomes.
type AttemptRecord struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	ScenarioID int       `json:"scenario_id"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAttemptRecord creates a validated AttemptRecord with a fresh ID and
// the current time.
func NewAttemptRecord(email string, scenarioID int, isCorrect bool) (*AttemptRecord, error) {
	record := &AttemptRecord{
		ID:         uuid.New(),
		Email:      strings.TrimSpace(email),
		ScenarioID: scenarioID,
		IsCorrect:  isCorrect,
		CreatedAt:  time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// Validate checks that the record identifies a student and a scenario.
func (a *AttemptRecord) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if a.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	if a.ScenarioID <= 0 {
		return NewValidationError("scenario_id", "must be a positive integer", ErrInvalidID)
	}
	return nil
}
