package verify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResultGuidance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MessageCorrect, Result{Reason: ReasonMatch}.Guidance())
	assert.Equal(t, MessageEmptyEntry, Result{Reason: ReasonEmptyEntry}.Guidance())

	for _, reason := range []Reason{
		ReasonLineCountMismatch,
		ReasonDuplicateAccount,
		ReasonUnknownAccount,
		ReasonAmountMismatch,
	} {
		assert.Equal(t, MessageIncorrect, Result{Reason: reason}.Guidance(), string(reason))
	}
}

func TestUnbalancedGuidanceShowsTotals(t *testing.T) {
	t.Parallel()

	msg := Result{
		Reason:      ReasonUnbalanced,
		TotalDebit:  decimal.RequireFromString("100"),
		TotalCredit: decimal.RequireFromString("90.5"),
	}.Guidance()

	assert.Contains(t, msg, "Debits ($")
	assert.Contains(t, msg, "don't equal credits")
	assert.Contains(t, msg, "100")
	assert.Contains(t, msg, "90.50")
}
