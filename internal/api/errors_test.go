package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/phrazzld/journal-drill/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid identity", drill.ErrInvalidIdentity, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("id", "bad", domain.ErrInvalidID), http.StatusBadRequest},
		{"invalid entity", fmt.Errorf("save: %w", store.ErrInvalidEntity), http.StatusBadRequest},
		{"unknown scenario", fmt.Errorf("%w: 9", domain.ErrUnknownScenario), http.StatusNotFound},
		{"progress not found", store.ErrProgressNotFound, http.StatusNotFound},
		{"session complete", drill.NewServiceError("check", "done", drill.ErrSessionComplete), http.StatusConflict},
		{"attempt exists", store.ErrAttemptExists, http.StatusConflict},
		{"unavailable", store.ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageHidesDetail(t *testing.T) {
	err := fmt.Errorf("query progress for alice@example.com: %w", errors.New("pq: password authentication failed"))
	msg := GetSafeErrorMessage(err)

	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "alice")
	assert.Equal(t, "Scenario not found", GetSafeErrorMessage(domain.ErrUnknownScenario))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	tooMany := CheckRequest{Lines: make([]domain.CandidateLine, 21)}
	err := shared.ValidateRequest(&tooMany)

	assert.Equal(t, "Invalid Lines: too long", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
