package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

func TestSinkKeepsLastSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, ok := s.Last()
	assert.False(t, ok)

	txs := []core.Transaction{{ID: 1, Fields: core.Fields{Type: core.Income, Category: "salary", Amount: decimal.NewFromInt(10), Date: "d"}}}
	require.NoError(t, s.Export(ctx, sheets.Snapshot{Transactions: txs}))

	txs[0].Category = "mutated"
	got, ok := s.Transaction(1)
	require.True(t, ok)
	assert.Equal(t, "salary", got.Category)

	require.NoError(t, s.Export(ctx, sheets.Snapshot{}))
	assert.Equal(t, 2, s.Exports())
	_, ok = s.Transaction(1)
	assert.False(t, ok)
	assert.Len(t, s.Rows(), 6)
}

func TestSinkHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New().Export(ctx, sheets.Snapshot{}), context.Canceled)
}
