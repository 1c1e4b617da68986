package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/domain/verify"
	"github.com/phrazzld/journal-drill/internal/mocks"
	"github.com/phrazzld/journal-drill/internal/service/drill"
)

func TestSessionGet(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("active session includes scenario", func(t *testing.T) {
		svc := &mocks.MockDrillService{
			CatalogValue: catalog,
			SessionFn: func(_ context.Context, email string) (drill.Snapshot, error) {
				return drill.Snapshot{Email: email, CurrentScenarioID: 5, TotalScenarios: 3}, nil
			},
		}
		h := NewSessionHandler(svc, discardLogger())

		rr := httptest.NewRecorder()
		h.Get(rr, newRequest(t, http.MethodGet, "/api/session?email=s@example.com", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[SessionResponse](t, rr)
		assert.Equal(t, "s@example.com", resp.Email)
		require.NotNil(t, resp.Scenario)
		assert.Equal(t, 5, resp.Scenario.ID)
		assert.True(t, resp.Scenario.IsLast)
	})

	t.Run("done session has no scenario", func(t *testing.T) {
		svc := &mocks.MockDrillService{
			CatalogValue: catalog,
			SessionFn: func(context.Context, string) (drill.Snapshot, error) {
				return drill.Snapshot{CurrentScenarioID: domain.DoneScenarioID, Done: true, MasteryPercent: 100}, nil
			},
		}
		h := NewSessionHandler(svc, discardLogger())

		rr := httptest.NewRecorder()
		h.Get(rr, newRequest(t, http.MethodGet, "/api/session?email=s@example.com", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[SessionResponse](t, rr)
		assert.True(t, resp.Done)
		assert.Nil(t, resp.Scenario)
	})

	t.Run("missing email", func(t *testing.T) {
		h := NewSessionHandler(&mocks.MockDrillService{}, discardLogger())

		rr := httptest.NewRecorder()
		h.Get(rr, newRequest(t, http.MethodGet, "/api/session", nil, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, msgEmailRequired, decodeBody[shared.ErrorResponse](t, rr).Error)
	})
}

func TestSessionCheck(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("correct entry includes solution", func(t *testing.T) {
		var gotLines []domain.CandidateLine
		svc := &mocks.MockDrillService{
			CatalogValue: catalog,
			CheckFn: func(_ context.Context, _ string, lines []domain.CandidateLine) (*drill.CheckResult, error) {
				gotLines = lines
				return &drill.CheckResult{
					ScenarioID:     2,
					Result:         verify.Result{Balanced: true, Matches: true, Reason: verify.ReasonMatch},
					ReadyToAdvance: true,
				}, nil
			},
		}
		h := NewSessionHandler(svc, discardLogger())

		body := CheckRequest{Lines: []domain.CandidateLine{
			{Account: "Interest Expense", Debit: "3000"},
			{Account: "Cash", Credit: "3000"},
		}}
		rr := httptest.NewRecorder()
		h.Check(rr, newRequest(t, http.MethodPost, "/api/session/check?email=s@example.com", body, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, body.Lines, gotLines)
		resp := decodeBody[CheckResponse](t, rr)
		assert.True(t, resp.ReadyToAdvance)
		require.NotNil(t, resp.Solution)
		assert.Equal(t, 2, resp.Solution.ScenarioID)
	})

	t.Run("incorrect entry hides solution", func(t *testing.T) {
		svc := &mocks.MockDrillService{
			CatalogValue: catalog,
			CheckFn: func(context.Context, string, []domain.CandidateLine) (*drill.CheckResult, error) {
				return &drill.CheckResult{ScenarioID: 1, Result: verify.Result{Reason: verify.ReasonUnbalanced}}, nil
			},
		}
		h := NewSessionHandler(svc, discardLogger())

		rr := httptest.NewRecorder()
		h.Check(rr, newRequest(t, http.MethodPost, "/api/session/check?email=s@example.com", `{"lines":[]}`, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), `"solution"`)
	})

	t.Run("session complete", func(t *testing.T) {
		svc := &mocks.MockDrillService{
			CatalogValue: catalog,
			CheckFn: func(context.Context, string, []domain.CandidateLine) (*drill.CheckResult, error) {
				return nil, drill.ErrSessionComplete
			},
		}
		h := NewSessionHandler(svc, discardLogger())

		rr := httptest.NewRecorder()
		h.Check(rr, newRequest(t, http.MethodPost, "/api/session/check?email=s@example.com", `{"lines":[]}`, nil))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewSessionHandler(&mocks.MockDrillService{CatalogValue: catalog}, discardLogger())

		rr := httptest.NewRecorder()
		h.Check(rr, newRequest(t, http.MethodPost, "/api/session/check?email=s@example.com", `{"lines":`, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("too many lines", func(t *testing.T) {
		h := NewSessionHandler(&mocks.MockDrillService{CatalogValue: catalog}, discardLogger())

		lines := make([]domain.CandidateLine, 21)
		rr := httptest.NewRecorder()
		h.Check(rr, newRequest(t, http.MethodPost, "/api/session/check?email=s@example.com",
			CheckRequest{Lines: lines}, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSessionAdvanceResetEnd(t *testing.T) {
	catalog := testCatalog(t)
	var calls []string
	svc := &mocks.MockDrillService{
		CatalogValue: catalog,
		AdvanceFn: func(context.Context, string) (drill.Snapshot, error) {
			calls = append(calls, "advance")
			return drill.Snapshot{CurrentScenarioID: 2}, nil
		},
		ResetFn: func(context.Context, string) (drill.Snapshot, error) {
			calls = append(calls, "reset")
			return drill.Snapshot{CurrentScenarioID: 1}, nil
		},
		EndFn: func(context.Context, string) bool {
			calls = append(calls, "end")
			return true
		},
	}
	h := NewSessionHandler(svc, discardLogger())

	rr := httptest.NewRecorder()
	h.Advance(rr, newRequest(t, http.MethodPost, "/api/session/advance?email=s@example.com", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decodeBody[SessionResponse](t, rr).Scenario.ID)

	rr = httptest.NewRecorder()
	h.Reset(rr, newRequest(t, http.MethodPost, "/api/session/reset?email=s@example.com", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decodeBody[SessionResponse](t, rr).CurrentScenarioID)

	rr = httptest.NewRecorder()
	h.End(rr, newRequest(t, http.MethodDelete, "/api/session?email=s@example.com", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ended":true}`, rr.Body.String())

	assert.Equal(t, []string{"advance", "reset", "end"}, calls)
}
