package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/redact"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/phrazzld/journal-drill/internal/store"
)

// Messages returned by the persistence endpoints.
const (
	msgMissingAttemptFields = "Missing required fields: email, scenario_id, is_correct"
	msgAttemptLogged        = "Attempt logged successfully"
	msgAttemptFailed        = "Error logging attempt"
	msgEmailRequired        = "Email is required"
	msgProgressSaved        = "Progress saved successfully"
	msgProgressSaveFailed   = "Error saving progress"
	msgProgressLoadFailed   = "Error loading progress"
	msgMethodNotAllowed     = "Method Not Allowed"
	msgInvalidRequest       = "Invalid request format"
	msgInvalidProgress      = "Invalid progress data"
)

// SessionEnder drops an in-memory drill session.
type SessionEnder interface {
	End(ctx context.Context, email string) bool
}

// PersistenceHandler serves the progress and attempt endpoints used by
// browser clients that keep their own state.
type PersistenceHandler struct {
	gateway  drill.Gateway
	catalog  *domain.Catalog
	sessions SessionEnder
	logger   *slog.Logger
}

// NewPersistenceHandler creates a PersistenceHandler. gateway must write
// synchronously so storage failures can be reported. sessions may be nil;
// when set, a client progress write ends the student's in-memory session so
// the next drill call reloads the saved state.
func NewPersistenceHandler(
	gateway drill.Gateway,
	catalog *domain.Catalog,
	sessions SessionEnder,
	logger *slog.Logger,
) *PersistenceHandler {
	if gateway == nil || catalog == nil {
		panic("gateway and catalog cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PersistenceHandler")
	}
	return &PersistenceHandler{
		gateway:  gateway,
		catalog:  catalog,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "persistence_handler")),
	}
}

// Attempt handles POST /api/attempt.
func (h *PersistenceHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if r.Method != http.MethodPost {
		shared.RespondWithJSON(w, r, http.StatusMethodNotAllowed, MessageResponse{Message: msgMethodNotAllowed})
		return
	}

	var req AttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid attempt body", slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusBadRequest, MessageResponse{Message: msgInvalidRequest})
		return
	}
	if domain.IsBlank(req.Email) || req.ScenarioID == nil || req.IsCorrect == nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, MessageResponse{Message: msgMissingAttemptFields})
		return
	}

	err := h.gateway.RecordAttempt(r.Context(), req.Email, *req.ScenarioID, *req.IsCorrect)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidEntity) {
			status = http.StatusBadRequest
		}
		log.Error("failed to log attempt",
			slog.String("email", redact.Email(req.Email)),
			slog.Int("scenario_id", *req.ScenarioID),
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, status, MessageResponse{Message: msgAttemptFailed, Error: redact.Error(err)})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgAttemptLogged})
}

// Progress handles GET and POST /api/progress?email=. The email is checked
// before the method.
func (h *PersistenceHandler) Progress(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)
	if email == "" {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, MessageResponse{Message: msgEmailRequired})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.loadProgress(w, r, email)
	case http.MethodPost:
		h.saveProgress(w, r, email)
	default:
		shared.RespondWithJSON(w, r, http.StatusMethodNotAllowed, MessageResponse{Message: msgMethodNotAllowed})
	}
}

func (h *PersistenceHandler) loadProgress(w http.ResponseWriter, r *http.Request, email string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	state, err := h.gateway.LoadProgress(r.Context(), email)
	stored := "true"
	switch {
	case err == nil && state != nil:
	case err == nil, errors.Is(err, store.ErrNotFound):
		fresh := domain.NewProgressState(h.catalog.FirstID())
		state = &fresh
		stored = "false"
	default:
		log.Error("failed to load progress",
			slog.String("email", redact.Email(email)),
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusInternalServerError,
			MessageResponse{Message: msgProgressLoadFailed, Error: redact.Error(err)})
		return
	}

	completed := state.CompletedScenarios
	if completed == nil {
		completed = domain.CompletionMap{}
	}
	currentID := state.CurrentScenarioID
	w.Header().Set(shared.ProgressStoredHeader, stored)
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressPayload{
		CompletedScenarios: completed,
		CurrentID:          &currentID,
		Version:            state.Version,
	})
}

func (h *PersistenceHandler) saveProgress(w http.ResponseWriter, r *http.Request, email string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ProgressPayload
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid progress body", slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusBadRequest, MessageResponse{Message: msgInvalidRequest})
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest,
			MessageResponse{Message: msgInvalidProgress, Error: SanitizeValidationError(err)})
		return
	}

	state := domain.ProgressState{
		CurrentScenarioID:  *req.CurrentID,
		CompletedScenarios: req.CompletedScenarios,
		Version:            req.Version,
	}
	if state.CompletedScenarios == nil {
		state.CompletedScenarios = domain.CompletionMap{}
	}

	if err := h.gateway.SaveProgress(r.Context(), email, state); err != nil {
		status := http.StatusInternalServerError
		message := msgProgressSaveFailed
		if errors.Is(err, store.ErrInvalidEntity) {
			status = http.StatusBadRequest
			message = msgInvalidProgress
		}
		log.Error("failed to save progress",
			slog.String("email", redact.Email(email)),
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, status, MessageResponse{Message: message, Error: redact.Error(err)})
		return
	}

	if h.sessions != nil {
		h.sessions.End(r.Context(), email)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgProgressSaved})
}
