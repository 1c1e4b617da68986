package verify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Guidance messages shown to students.
const (
	MessageEmptyEntry = "Please enter at least one journal entry line."
	MessageIncorrect  = "Your journal entry isn't quite right. Try again or check the solution."
	MessageCorrect    = "Correct! Review the calculations below."
)

// Guidance returns the student-facing message for the result.
// An unbalanced entry reports both totals formatted as currency.
func (r Result) Guidance() string {
	switch r.Reason {
	case ReasonMatch:
		return MessageCorrect
	case ReasonEmptyEntry:
		return MessageEmptyEntry
	case ReasonUnbalanced:
		p := message.NewPrinter(language.AmericanEnglish)
		return p.Sprintf("Debits ($%.2f) don't equal credits ($%.2f)",
			r.TotalDebit.InexactFloat64(), r.TotalCredit.InexactFloat64())
	default:
		return MessageIncorrect
	}
}
