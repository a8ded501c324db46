package sheets

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Snapshot is the full ledger at one point in time.
type Snapshot struct {
	Transactions []core.Transaction
	Summary      core.Summary
	TakenAt      time.Time
}

// LedgerExporter replaces the mirrored copy of the ledger with snapshot.
type LedgerExporter interface {
	Export(ctx context.Context, snapshot Snapshot) error
}

// Header is the first row of the mirrored grid.
var Header = []any{"ID", "Type", "Category", "Amount", "Date", "Description"}

// Rows lays the snapshot out as a grid: the header, one row per
// transaction, a blank separator and the summary block. Amounts are
// numbers so the sheet can compute with them.
func Rows(s Snapshot) [][]any {
	rows := make([][]any, 0, len(s.Transactions)+6)
	rows = append(rows, Header)
	for _, tx := range s.Transactions {
		rows = append(rows, []any{
			tx.ID,
			tx.Type.String(),
			tx.Category,
			tx.Amount.InexactFloat64(),
			tx.Date,
			tx.DescriptionOrEmpty(),
		})
	}
	rows = append(rows,
		[]any{},
		[]any{"Total income", "", "", s.Summary.TotalIncome.InexactFloat64()},
		[]any{"Total expense", "", "", s.Summary.TotalExpense.InexactFloat64()},
		[]any{"Balance", "", "", s.Summary.Balance.InexactFloat64()},
		[]any{"Updated at", s.TakenAt.UTC().Format(time.RFC3339)},
	)
	return rows
}
