package drill_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/domain"
)

func amt(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// newCatalog builds a catalog of face-value interest scenarios. Every
// scenario's answer is Interest Expense 3000 / Cash 3000.
func newCatalog(t *testing.T, ids ...int) *domain.Catalog {
	t.Helper()
	scenarios := make([]domain.Scenario, 0, len(ids))
	for _, id := range ids {
		scenarios = append(scenarios, domain.Scenario{
			ID:         id,
			BondType:   domain.BondTypeFace,
			FaceValue:  decimal.NewFromInt(100000),
			IssuePrice: decimal.NewFromInt(100000),
			Task:       "Record the interest payment.",
			Solution: []domain.SolutionLine{
				{Account: "Interest Expense", Debit: amt("3000")},
				{Account: "Cash", Credit: amt("3000")},
			},
		})
	}
	catalog, err := domain.NewCatalog(scenarios)
	require.NoError(t, err)
	return catalog
}

func correctLines() []domain.CandidateLine {
	return []domain.CandidateLine{
		{Account: "cash", Credit: "3,000.00"},
		{Account: " Interest Expense ", Debit: "$3000"},
	}
}

func wrongLines() []domain.CandidateLine {
	return []domain.CandidateLine{
		{Account: "Interest Expense", Debit: "2500"},
		{Account: "Cash", Credit: "2500"},
	}
}
