package core

import "github.com/shopspring/decimal"

// Summary is the aggregate view over every stored transaction.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// Summarize groups records by type and sums their amounts. Records with an
// unknown type are ignored. The result is zero-valued for an empty input.
func Summarize(records []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, r := range records {
		switch r.Type {
		case Income:
			income = income.Add(r.Amount)
		case Expense:
			expense = expense.Add(r.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}
