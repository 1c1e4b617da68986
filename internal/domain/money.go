package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest difference at which two currency amounts are
// still considered equal.
var Tolerance = decimal.New(1, -2)

// amountReplacer strips currency symbols and digit grouping that students
// commonly type into amount fields.
var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsBlank reports whether an amount or account field was left empty.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseAmount converts a user-entered amount into a decimal.
// Blank input yields zero. Input that is not a number yields zero and an
// error wrapping ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	if IsBlank(s) {
		return decimal.Zero, nil
	}

	cleaned := amountReplacer.Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// AmountOrZero returns the parsed amount, treating unparseable input as zero.
func AmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
