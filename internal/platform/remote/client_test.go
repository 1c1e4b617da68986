package remote_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/api"
	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/memory"
	"github.com/phrazzld/journal-drill/internal/platform/remote"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/phrazzld/journal-drill/internal/store"
)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	debit, credit := decimal.NewFromInt(3000), decimal.NewFromInt(3000)
	c, err := domain.NewCatalog([]domain.Scenario{{
		ID:         3,
		BondType:   domain.BondTypeFace,
		FaceValue:  decimal.NewFromInt(100000),
		IssuePrice: decimal.NewFromInt(100000),
		Task:       "Record the interest payment.",
		Solution: []domain.SolutionLine{
			{Account: "Interest Expense", Debit: &debit},
			{Account: "Cash", Credit: &credit},
		},
	}})
	require.NoError(t, err)
	return c
}

// newServer runs the real persistence handlers on a memory store.
func newServer(t *testing.T) (*remote.Client, *memory.Store) {
	t.Helper()
	mem := memory.New(nil)
	h := api.NewPersistenceHandler(drill.NewStoreGateway(mem, mem), testCatalog(t), nil, discardLogger())

	r := chi.NewRouter()
	r.HandleFunc("/api/attempt", h.Attempt)
	r.HandleFunc("/api/progress", h.Progress)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := remote.New(srv.URL+"/", nil, remote.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, mem
}

func TestClientRoundTrip(t *testing.T) {
	client, mem := newServer(t)
	ctx := context.Background()

	_, err := client.LoadProgress(ctx, "s+1@example.com")
	assert.ErrorIs(t, err, store.ErrProgressNotFound)

	state := domain.ProgressState{CurrentScenarioID: 0, CompletedScenarios: domain.CompletionMap{3: true}, Version: 4}
	require.NoError(t, client.SaveProgress(ctx, "s+1@example.com", state))

	got, err := client.LoadProgress(ctx, "s+1@example.com")
	require.NoError(t, err)
	assert.Equal(t, state, *got)

	stale := domain.ProgressState{CurrentScenarioID: 3, CompletedScenarios: domain.CompletionMap{}, Version: 2}
	require.NoError(t, client.SaveProgress(ctx, "s+1@example.com", stale))
	got, err = client.LoadProgress(ctx, "s+1@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Version)

	require.NoError(t, client.RecordAttempt(ctx, "s+1@example.com", 3, false))
	attempts, err := mem.Attempts(ctx, "s+1@example.com")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 3, attempts[0].ScenarioID)
	assert.False(t, attempts[0].IsCorrect)
}

func TestClientLoadsStoredDefaultLookingProgress(t *testing.T) {
	client, mem := newServer(t)
	ctx := context.Background()

	stored := domain.ProgressState{CurrentScenarioID: 3, CompletedScenarios: domain.CompletionMap{}, Version: 0}
	_, err := mem.Upsert(ctx, "s@example.com", &stored)
	require.NoError(t, err)

	got, err := client.LoadProgress(ctx, "s@example.com")
	require.NoError(t, err)
	assert.Equal(t, stored, *got)
}

func TestClientLoadProgressHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"stored record", "true", nil},
		{"default state", "false", store.ErrProgressNotFound},
		{"header absent", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tc.header != "" {
					w.Header().Set(shared.ProgressStoredHeader, tc.header)
				}
				_, _ = w.Write([]byte(`{"completedScenarios":{},"currentId":4,"version":0}`))
			}))
			defer srv.Close()

			client, err := remote.New(srv.URL, nil)
			require.NoError(t, err)

			got, err := client.LoadProgress(context.Background(), "s@example.com")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ProgressState{CurrentScenarioID: 4, CompletedScenarios: domain.CompletionMap{}}, *got)
		})
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, `{"message":"Missing required fields"}`, store.ErrInvalidEntity},
		{"server error", http.StatusInternalServerError, `{"message":"Error saving progress","error":"dial tcp"}`, store.ErrUnavailable},
		{"not found", http.StatusNotFound, `not json`, store.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := remote.New(srv.URL, nil)
			require.NoError(t, err)

			err = client.SaveProgress(context.Background(), "s@example.com", domain.NewProgressState(1))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := remote.New(url, nil)
	require.NoError(t, err)

	err = client.RecordAttempt(context.Background(), "s@example.com", 1, true)
	assert.True(t, errors.Is(err, store.ErrUnavailable), "got %v", err)
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://nope"} {
		_, err := remote.New(raw, nil)
		assert.Error(t, err, raw)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
