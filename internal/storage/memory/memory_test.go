package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.TransactionStore {
		return New()
	})
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	f := storagetest.Fields(core.Income, "salary", "10", "2024-01-01")
	f.Description = core.StringPtr("original")
	id, err := s.Create(ctx, f)
	require.NoError(t, err)

	*f.Description = "mutated by caller"
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", *got.Description)

	*got.Description = "mutated again"
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", *again.Description)
}
