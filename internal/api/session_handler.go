package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/service/drill"
)

// SessionHandler exposes drill sessions over HTTP. The student is
// identified by the email query parameter.
type SessionHandler struct {
	service drill.DrillService
	logger  *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(service drill.DrillService, logger *slog.Logger) *SessionHandler {
	if service == nil {
		panic("drill service cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		service: service,
		logger:  logger.With(slog.String("component", "session_handler")),
	}
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, ok := h.requireEmail(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Session(r.Context(), email)
	h.respondSnapshot(w, r, snap, err)
}

// Check handles POST /api/session/check.
func (h *SessionHandler) Check(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	email, ok := h.requireEmail(w, r)
	if !ok {
		return
	}

	var req CheckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid check body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	result, err := h.service.Check(r.Context(), email, req.Lines)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := CheckResponse{CheckResult: result}
	if result.Result.Matches {
		if s, ok := h.service.Catalog().Get(result.ScenarioID); ok {
			resp.Solution = newSolutionResponse(s)
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Advance handles POST /api/session/advance.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	email, ok := h.requireEmail(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Advance(r.Context(), email)
	h.respondSnapshot(w, r, snap, err)
}

// Reset handles POST /api/session/reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	email, ok := h.requireEmail(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Reset(r.Context(), email)
	h.respondSnapshot(w, r, snap, err)
}

// End handles DELETE /api/session.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	email, ok := h.requireEmail(w, r)
	if !ok {
		return
	}
	ended := h.service.End(r.Context(), email)
	shared.RespondWithJSON(w, r, http.StatusOK, EndSessionResponse{Ended: ended})
}

func (h *SessionHandler) requireEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := emailParam(r)
	if email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgEmailRequired)
		return "", false
	}
	return email, true
}

func (h *SessionHandler) respondSnapshot(w http.ResponseWriter, r *http.Request, snap drill.Snapshot, err error) {
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := SessionResponse{Snapshot: snap}
	catalog := h.service.Catalog()
	if !snap.Done && catalog != nil {
		if s, ok := catalog.Get(snap.CurrentScenarioID); ok {
			resp.Scenario = newScenarioResponse(s, catalog.IsLast(s.ID))
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
