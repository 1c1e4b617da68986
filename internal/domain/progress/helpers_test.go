package progress

import (
	"testing"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, ids ...int) *domain.Catalog {
	t.Helper()

	amount := decimal.NewFromInt(500)
	scenarios := make([]domain.Scenario, 0, len(ids))
	for _, id := range ids {
		scenarios = append(scenarios, domain.Scenario{
			ID:       id,
			BondType: domain.BondTypeFace,
			Task:     "Record the entry.",
			Solution: []domain.SolutionLine{
				{Account: "Cash", Debit: &amount},
				{Account: "Bonds Payable", Credit: &amount},
			},
		})
	}

	catalog, err := domain.NewCatalog(scenarios)
	require.NoError(t, err)
	return catalog
}
