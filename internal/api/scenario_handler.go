package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
)

// ScenarioHandler serves the read-only scenario catalog.
type ScenarioHandler struct {
	catalog *domain.Catalog
	logger  *slog.Logger
}

// NewScenarioHandler creates a new ScenarioHandler
func NewScenarioHandler(catalog *domain.Catalog, logger *slog.Logger) *ScenarioHandler {
	if catalog == nil {
		panic("catalog cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ScenarioHandler")
	}
	return &ScenarioHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "scenario_handler")),
	}
}

// List handles GET /api/scenarios.
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios := h.catalog.Scenarios()
	out := make([]ScenarioSummary, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, newScenarioSummary(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /api/scenarios/{id}. The solution is not included.
func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newScenarioResponse(s, h.catalog.IsLast(s.ID)))
}

// Solution handles GET /api/scenarios/{id}/solution.
func (h *ScenarioHandler) Solution(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSolutionResponse(s))
}

func (h *ScenarioHandler) lookup(w http.ResponseWriter, r *http.Request) (domain.Scenario, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathScenarioID(r, "id")
	if err != nil {
		log.Debug("invalid scenario id", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Invalid scenario ID")
		return domain.Scenario{}, false
	}

	s, ok := h.catalog.Get(id)
	if !ok {
		HandleAPIError(w, r, fmt.Errorf("%w: %d", domain.ErrUnknownScenario, id), "")
		return domain.Scenario{}, false
	}
	return s, true
}
