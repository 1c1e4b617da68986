package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BondType classifies a bond by how its issue price relates to face value.
type BondType string

// Possible bond types
const (
	BondTypeFace     BondType = "face"
	BondTypePremium  BondType = "premium"
	BondTypeDiscount BondType = "discount"
)

// Valid reports whether b is a recognized bond type.
func (b BondType) Valid() bool {
	switch b {
	case BondTypeFace, BondTypePremium, BondTypeDiscount:
		return true
	default:
		return false
	}
}

// SolutionLine is one row of a scenario's canonical journal entry.
// A nil side means the line has no amount on that side.
type SolutionLine struct {
	Account string           `json:"account"`
	Debit   *decimal.Decimal `json:"debit,omitempty"`
	Credit  *decimal.Decimal `json:"credit,omitempty"`
}

// DebitAmount returns the debit side, or zero when absent.
func (l SolutionLine) DebitAmount() decimal.Decimal {
	if l.Debit == nil {
		return decimal.Zero
	}
	return *l.Debit
}

// CreditAmount returns the credit side, or zero when absent.
func (l SolutionLine) CreditAmount() decimal.Decimal {
	if l.Credit == nil {
		return decimal.Zero
	}
	return *l.Credit
}

// Calculation is a labelled worked value shown alongside a solution.
type Calculation struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KeyCalculations holds the worked figures for a scenario in display order.
// Overview is the free-text summary rendered apart from the other items.
type KeyCalculations struct {
	Overview string        `json:"overview,omitempty"`
	Items    []Calculation `json:"items"`
}

// Scenario is a single bond transaction the student must journalize.
// Rates are decimal fractions (0.06 for 6%) and are nil when they do not
// apply to the transaction.
type Scenario struct {
	ID               int              `json:"id"`
	BondType         BondType         `json:"bondType"`
	FaceValue        decimal.Decimal  `json:"faceValue"`
	IssuePrice       decimal.Decimal  `json:"issuePrice"`
	StatedRate       *decimal.Decimal `json:"statedRate"`
	EffectiveRate    *decimal.Decimal `json:"effectiveRate"`
	LifeYears        int              `json:"lifeYears"`
	PaymentFrequency string           `json:"paymentFrequency"`
	Task             string           `json:"task"`
	Solution         []SolutionLine   `json:"solution"`
	KeyCalculations  KeyCalculations  `json:"keyCalculations"`
	SuccessMessage   string           `json:"successMessage,omitempty"`
}

// SolutionTotals sums the debit and credit sides of the canonical entry.
func (s *Scenario) SolutionTotals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range s.Solution {
		debit = debit.Add(line.DebitAmount())
		credit = credit.Add(line.CreditAmount())
	}
	return debit, credit
}

// Validate checks that the scenario is well formed and that its canonical
// entry balances.
func (s *Scenario) Validate() error {
	if s.ID <= 0 {
		return NewValidationError("id", "must be a positive integer", ErrInvalidID)
	}

	if !s.BondType.Valid() {
		return NewValidationError("bondType",
			fmt.Sprintf("scenario %d has unknown bond type %q", s.ID, s.BondType), ErrInvalidBondType)
	}

	if s.Task == "" {
		return NewValidationError("task", fmt.Sprintf("scenario %d has no task", s.ID), nil)
	}

	if len(s.Solution) == 0 {
		return NewValidationError("solution", fmt.Sprintf("scenario %d has no solution lines", s.ID), nil)
	}

	for i, line := range s.Solution {
		if IsBlank(line.Account) {
			return NewValidationError("solution",
				fmt.Sprintf("scenario %d line %d has no account", s.ID, i+1), nil)
		}
		debit, credit := line.DebitAmount(), line.CreditAmount()
		if debit.IsNegative() || credit.IsNegative() {
			return NewValidationError("solution",
				fmt.Sprintf("scenario %d line %d has a negative amount", s.ID, i+1), nil)
		}
		if !debit.IsZero() && !credit.IsZero() {
			return NewValidationError("solution",
				fmt.Sprintf("scenario %d line %d has both a debit and a credit", s.ID, i+1), nil)
		}
	}

	debit, credit := s.SolutionTotals()
	if !WithinTolerance(debit, credit) {
		return NewValidationError("solution",
			fmt.Sprintf("scenario %d debits %s do not equal credits %s",
				s.ID, debit.StringFixed(2), credit.StringFixed(2)),
			ErrUnbalancedSolution)
	}

	return nil
}

// CaseVariantAccounts returns account names in the solution that collide
// once case and surrounding whitespace are ignored.
func (s *Scenario) CaseVariantAccounts() []string {
	seen := make(map[string]string, len(s.Solution))
	var collisions []string
	for _, line := range s.Solution {
		key := NormalizeAccount(line.Account)
		if prev, ok := seen[key]; ok {
			collisions = append(collisions, prev, line.Account)
			continue
		}
		seen[key] = line.Account
	}
	return collisions
}
