package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/journal-drill/internal/domain"
)

// emailParam returns the trimmed email query parameter.
func emailParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("email"))
}

// getPathScenarioID extracts a scenario ID from the URL path parameters.
//
// Returns:
//   - (id, nil): The parsed positive ID
//   - (0, error): A validation error if the parameter is missing or not a positive integer
func getPathScenarioID(r *http.Request, paramName string) (int, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", nil)
	}

	id, err := strconv.Atoi(pathParam)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName,
			fmt.Sprintf("must be a positive integer, got %q", pathParam), domain.ErrInvalidID)
	}
	return id, nil
}
