package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/mocks"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		ping       PingFunc
		wantStatus int
		wantBody   HealthResponse
	}{
		{
			name:       "no ping",
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ok", Scenarios: 3, ActiveSessions: 4, Storage: "memory"},
		},
		{
			name:       "ping ok",
			ping:       func(context.Context) error { return nil },
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ok", Scenarios: 3, ActiveSessions: 4, Storage: "memory"},
		},
		{
			name:       "ping fails",
			ping:       func(context.Context) error { return errors.New("refused") },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   HealthResponse{Status: "degraded", Scenarios: 3, ActiveSessions: 4, Storage: "memory"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockDrillService{
				CatalogValue:     testCatalog(t),
				ActiveSessionsFn: func() int { return 4 },
			}
			h := NewHealthHandler(svc, "memory", tc.ping, discardLogger())

			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantBody, decodeBody[HealthResponse](t, rr))
		})
	}
}
