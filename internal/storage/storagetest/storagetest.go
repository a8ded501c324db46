// Package storagetest holds behaviour checks shared by every
// TransactionStore implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Factory returns an empty store; cleanup is registered on t.
type Factory func(t *testing.T) storage.TransactionStore

func Fields(typ core.TransactionType, category, amount, date string) core.Fields {
	return core.Fields{
		Type:     typ,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

// Run exercises the full TransactionStore contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("create then get returns every field", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f := Fields(core.Income, "salary", "1000.25", "2024-01-01")
		f.Description = core.StringPtr("january pay")
		id, err := s.Create(ctx, f)
		require.NoError(t, err)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, core.Income, got.Type)
		assert.Equal(t, "salary", got.Category)
		assert.True(t, f.Amount.Equal(got.Amount), "amount %s", got.Amount)
		assert.Equal(t, "2024-01-01", got.Date)
		require.NotNil(t, got.Description)
		assert.Equal(t, "january pay", *got.Description)
	})

	t.Run("absent description stays absent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, Fields(core.Expense, "rent", "400", "2024-01-02"))
		require.NoError(t, err)
		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got.Description)
	})

	t.Run("ids are monotonic across deletes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var last int64
		for i := 0; i < 3; i++ {
			id, err := s.Create(ctx, Fields(core.Expense, "food", "12", "2024-02-01"))
			require.NoError(t, err)
			assert.Greater(t, id, last)
			last = id
		}
		require.NoError(t, s.Delete(ctx, last))

		id, err := s.Create(ctx, Fields(core.Expense, "food", "3", "2024-02-02"))
		require.NoError(t, err)
		assert.Greater(t, id, last)
	})

	t.Run("list tracks creates and deletes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		items, err := s.List(ctx)
		require.NoError(t, err)
		require.NotNil(t, items)
		assert.Len(t, items, 0)

		a, err := s.Create(ctx, Fields(core.Income, "salary", "1000", "2024-01-01"))
		require.NoError(t, err)
		b, err := s.Create(ctx, Fields(core.Expense, "rent", "400", "2024-01-02"))
		require.NoError(t, err)

		items, err = s.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, a, items[0].ID)
		assert.Equal(t, b, items[1].ID)

		require.NoError(t, s.Delete(ctx, a))
		items, err = s.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, b, items[0].ID)
	})

	t.Run("create rejects missing fields and zero amount", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, Fields(core.Income, "salary", "0", "2024-01-01"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrValidation))

		_, err = s.Create(ctx, core.Fields{Type: core.Income})
		assert.True(t, errors.Is(err, core.ErrValidation))

		items, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("create rejects unknown type at the storage boundary", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, Fields("savings", "piggy", "10", "2024-01-01"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrStorage), "got %v", err)
		assert.False(t, errors.Is(err, core.ErrValidation))

		items, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("get missing id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), 42)
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("update replaces every field and keeps id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		orig := Fields(core.Income, "salary", "1000", "2024-01-01")
		orig.Description = core.StringPtr("old")
		id, err := s.Create(ctx, orig)
		require.NoError(t, err)

		next := Fields(core.Expense, "rent", "450.5", "2024-03-01")
		require.NoError(t, s.Update(ctx, id, next))

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, core.Expense, got.Type)
		assert.Equal(t, "rent", got.Category)
		assert.True(t, next.Amount.Equal(got.Amount))
		assert.Equal(t, "2024-03-01", got.Date)
		assert.Nil(t, got.Description)
	})

	t.Run("update does not apply create validation", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, Fields(core.Income, "salary", "1000", "2024-01-01"))
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, id, Fields(core.Income, "salary", "0", "2024-01-01")))
		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Amount.IsZero())
	})

	t.Run("update with unknown type is a storage error", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, Fields(core.Income, "salary", "1000", "2024-01-01"))
		require.NoError(t, err)

		err = s.Update(ctx, id, Fields("savings", "salary", "1000", "2024-01-01"))
		assert.True(t, errors.Is(err, core.ErrStorage), "got %v", err)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, core.Income, got.Type)
	})

	t.Run("update with absent fields is a storage error", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, Fields(core.Income, "salary", "1000", "2024-01-01"))
		require.NoError(t, err)

		for _, name := range []string{core.FieldType, core.FieldCategory, core.FieldAmount, core.FieldDate} {
			next := Fields(core.Expense, "rent", "400", "2024-01-02")
			next.Absent = []string{name}
			err = s.Update(ctx, id, next)
			assert.True(t, errors.Is(err, core.ErrStorage), "%s: got %v", name, err)
		}

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, core.Income, got.Type)
		assert.Equal(t, "salary", got.Category)
		assert.Equal(t, "2024-01-01", got.Date)
		assert.Empty(t, got.Absent)

		missing := Fields(core.Expense, "rent", "400", "2024-01-02")
		missing.Absent = []string{core.FieldDate}
		err = s.Update(ctx, id+100, missing)
		assert.True(t, errors.Is(err, core.ErrNotFound), "got %v", err)
	})

	t.Run("update and delete on missing id leave store unchanged", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, Fields(core.Income, "salary", "1000", "2024-01-01"))
		require.NoError(t, err)
		before, err := s.List(ctx)
		require.NoError(t, err)

		err = s.Update(ctx, id+100, Fields(core.Expense, "rent", "1", "2024-01-01"))
		assert.True(t, errors.Is(err, core.ErrNotFound))
		err = s.Delete(ctx, id+100)
		assert.True(t, errors.Is(err, core.ErrNotFound))

		after, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before))
		assert.Equal(t, before[0].ID, after[0].ID)
		assert.Equal(t, before[0].Type, after[0].Type)
		assert.True(t, before[0].Amount.Equal(after[0].Amount))
	})

	t.Run("delete twice", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Create(ctx, Fields(core.Expense, "rent", "400", "2024-01-02"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, id))
		assert.True(t, errors.Is(s.Delete(ctx, id), core.ErrNotFound))
		_, err = s.Get(ctx, id)
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
