package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CandidateLine is one row of a journal entry as submitted by a student.
// Every field is raw text and any of them may be blank.
type CandidateLine struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}

// Filled reports whether the line names an account and carries at least
// one amount. Lines that are not filled are ignored during verification.
func (l CandidateLine) Filled() bool {
	if IsBlank(l.Account) {
		return false
	}
	return !IsBlank(l.Debit) || !IsBlank(l.Credit)
}

// FilledLines returns the subset of lines that are filled, preserving order.
func FilledLines(lines []CandidateLine) []CandidateLine {
	filled := make([]CandidateLine, 0, len(lines))
	for _, line := range lines {
		if line.Filled() {
			filled = append(filled, line)
		}
	}
	return filled
}

// NormalizeAccount returns the key used to compare account names: surrounding
// whitespace removed and case folded.
func NormalizeAccount(name string) string {
	// A Caser keeps internal state and must not be shared between goroutines.
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}
