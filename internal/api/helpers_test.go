package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/domain"
)

func amt(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCatalog holds scenarios 1, 2 and 5. Each answer is
// Interest Expense 3000 / Cash 3000.
func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	var scenarios []domain.Scenario
	for _, id := range []int{1, 2, 5} {
		scenarios = append(scenarios, domain.Scenario{
			ID:             id,
			BondType:       domain.BondTypeFace,
			FaceValue:      decimal.NewFromInt(100000),
			IssuePrice:     decimal.NewFromInt(100000),
			Task:           "Record the interest payment.",
			SuccessMessage: "Interest recorded.",
			Solution: []domain.SolutionLine{
				{Account: "Interest Expense", Debit: amt("3000")},
				{Account: "Cash", Credit: amt("3000")},
			},
		})
	}
	c, err := domain.NewCatalog(scenarios)
	require.NoError(t, err)
	return c
}

// newRequest builds a request with an optional JSON body and chi URL params.
func newRequest(t *testing.T, method, target string, body any, params map[string]string) *http.Request {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}
