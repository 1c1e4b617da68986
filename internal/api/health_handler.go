package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/service/drill"
)

const healthPingTimeout = 2 * time.Second

// PingFunc checks that a backing store is reachable.
type PingFunc func(ctx context.Context) error

// HealthHandler reports liveness plus catalog, session and storage state.
type HealthHandler struct {
	service drill.DrillService
	storage string
	ping    PingFunc
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler. ping may be nil for stores that
// cannot fail, such as the in-memory store.
func NewHealthHandler(service drill.DrillService, storage string, ping PingFunc, logger *slog.Logger) *HealthHandler {
	if service == nil {
		panic("drill service cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HealthHandler")
	}
	return &HealthHandler{
		service: service,
		storage: storage,
		ping:    ping,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Health handles GET /health. It answers 503 when the store is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "ok",
		ActiveSessions: h.service.ActiveSessions(),
		Storage:        h.storage,
	}
	if c := h.service.Catalog(); c != nil {
		resp.Scenarios = c.Size()
	}

	status := http.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).
				Warn("storage ping failed", slog.String("storage", h.storage), slog.String("error", err.Error()))
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	shared.RespondWithJSON(w, r, status, resp)
}
