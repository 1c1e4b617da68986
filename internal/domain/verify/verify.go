package verify

import (
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/shopspring/decimal"
)

// Reason identifies the outcome of a verification.
type Reason string

// Possible verification outcomes, in the order the checks run.
const (
	ReasonMatch             Reason = "MATCH"
	ReasonEmptyEntry        Reason = "EMPTY_ENTRY"
	ReasonUnbalanced        Reason = "UNBALANCED"
	ReasonLineCountMismatch Reason = "LINE_COUNT_MISMATCH"
	ReasonDuplicateAccount  Reason = "DUPLICATE_ACCOUNT"
	ReasonUnknownAccount    Reason = "UNKNOWN_ACCOUNT"
	ReasonAmountMismatch    Reason = "AMOUNT_MISMATCH"
)

// Result is the outcome of verifying one candidate entry.
//
// Balanced is true when the filled lines' debits equal their credits within
// the tolerance. Matches is true only when the entry is also identical to the
// canonical solution. TotalDebit and TotalCredit are computed over the
// filled lines. Account names the offending line for account-level reasons.
type Result struct {
	Balanced    bool            `json:"balanced"`
	Matches     bool            `json:"matches"`
	Reason      Reason          `json:"reason"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	FilledLines int             `json:"filledLines"`
	Account     string          `json:"account,omitempty"`
}

// Verify classifies candidate against solution.
//
// The checks run in a fixed order and the first failing one decides the
// reason:
//   - no filled lines: EMPTY_ENTRY
//   - debits and credits of the filled lines differ by more than the
//     tolerance: UNBALANCED
//   - filled-line count differs from the solution's line count:
//     LINE_COUNT_MISMATCH
//   - two filled lines name the same account: DUPLICATE_ACCOUNT
//   - a filled line names an account absent from the solution:
//     UNKNOWN_ACCOUNT
//   - a debit or credit differs from the solution's by more than the
//     tolerance: AMOUNT_MISMATCH
//
// Account names are compared after trimming and case folding, line order is
// irrelevant, a blank side counts as zero and an unparseable amount counts
// as zero.
func Verify(candidate []domain.CandidateLine, solution []domain.SolutionLine) Result {
	filled := domain.FilledLines(candidate)
	result := Result{
		Reason:      ReasonEmptyEntry,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		FilledLines: len(filled),
	}
	if len(filled) == 0 {
		return result
	}

	debits := make([]decimal.Decimal, len(filled))
	credits := make([]decimal.Decimal, len(filled))
	for i, line := range filled {
		debits[i] = domain.AmountOrZero(line.Debit)
		credits[i] = domain.AmountOrZero(line.Credit)
		result.TotalDebit = result.TotalDebit.Add(debits[i])
		result.TotalCredit = result.TotalCredit.Add(credits[i])
	}

	if !domain.WithinTolerance(result.TotalDebit, result.TotalCredit) {
		result.Reason = ReasonUnbalanced
		return result
	}
	result.Balanced = true

	if len(filled) != len(solution) {
		result.Reason = ReasonLineCountMismatch
		return result
	}

	expected := make(map[string]domain.SolutionLine, len(solution))
	for _, line := range solution {
		expected[domain.NormalizeAccount(line.Account)] = line
	}

	seen := make(map[string]struct{}, len(filled))
	for _, line := range filled {
		key := domain.NormalizeAccount(line.Account)
		if _, dup := seen[key]; dup {
			result.Reason = ReasonDuplicateAccount
			result.Account = line.Account
			return result
		}
		seen[key] = struct{}{}
	}

	for i, line := range filled {
		want, ok := expected[domain.NormalizeAccount(line.Account)]
		if !ok {
			result.Reason = ReasonUnknownAccount
			result.Account = line.Account
			return result
		}
		if !domain.WithinTolerance(debits[i], want.DebitAmount()) ||
			!domain.WithinTolerance(credits[i], want.CreditAmount()) {
			result.Reason = ReasonAmountMismatch
			result.Account = line.Account
			return result
		}
	}

	result.Matches = true
	result.Reason = ReasonMatch
	return result
}
