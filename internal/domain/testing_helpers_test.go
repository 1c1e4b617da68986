package domain

import "github.com/shopspring/decimal"

func amt(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validScenario(id int) Scenario {
	return Scenario{
		ID:         id,
		BondType:   BondTypeFace,
		FaceValue:  decimal.NewFromInt(100000),
		IssuePrice: decimal.NewFromInt(100000),
		Task:       "Record the first interest payment.",
		Solution: []SolutionLine{
			{Account: "Interest Expense", Debit: amt("3000")},
			{Account: "Cash", Credit: amt("3000")},
		},
	}
}
