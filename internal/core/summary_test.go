package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tx(id int64, typ TransactionType, amount string) Transaction {
	return Transaction{ID: id, Fields: Fields{
		Type:     typ,
		Category: "c",
		Amount:   decimal.RequireFromString(amount),
		Date:     "2024-01-01",
	}}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalExpense.IsZero())
	assert.True(t, s.Balance.IsZero())
}

func TestSummarizeIncomeAndExpense(t *testing.T) {
	s := Summarize([]Transaction{
		tx(1, Income, "1000"),
		tx(2, Expense, "400"),
	})
	assert.Equal(t, "1000", s.TotalIncome.String())
	assert.Equal(t, "400", s.TotalExpense.String())
	assert.Equal(t, "600", s.Balance.String())
}

func TestSummarizeIsExact(t *testing.T) {
	s := Summarize([]Transaction{
		tx(1, Income, "0.1"),
		tx(2, Income, "0.2"),
		tx(3, Expense, "0.3"),
	})
	assert.Equal(t, "0.3", s.TotalIncome.String())
	assert.True(t, s.Balance.IsZero())
}

func TestSummarizeOnlyExpenses(t *testing.T) {
	s := Summarize([]Transaction{tx(1, Expense, "50"), tx(2, Expense, "25.5")})
	assert.True(t, s.TotalIncome.IsZero())
	assert.Equal(t, "75.5", s.TotalExpense.String())
	assert.Equal(t, "-75.5", s.Balance.String())
}

func TestSummarizeIgnoresUnknownType(t *testing.T) {
	s := Summarize([]Transaction{tx(1, "savings", "10"), tx(2, Income, "3")})
	assert.Equal(t, "3", s.TotalIncome.String())
	assert.Equal(t, "3", s.Balance.String())
}
