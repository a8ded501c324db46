package storage_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/storagetest"
)

func newSQLite(t *testing.T) storage.TransactionStore {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	storagetest.Run(t, newSQLite)
}

func TestSQLiteRepositoryReopensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fintrack.db")
	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(path)
	require.NoError(t, err)
	id, err := repo.Create(ctx, storagetest.Fields(core.Income, "salary", "1000", "2024-01-01"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = storage.NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "salary", got.Category)
	assert.Equal(t, storage.DialectSQLite, repo.Dialect())
}

func TestSQLiteSchemaKeepsCategoryFree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	repo, err := storage.NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'categories'`).Scan(&n))
	assert.Zero(t, n)

	_, err = repo.Create(context.Background(), storagetest.Fields(core.Expense, "anything at all", "1", "whenever"))
	assert.NoError(t, err)
}

func TestPostgresRepositoryContract(t *testing.T) {
	dsn := os.Getenv("FINTRACK_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("FINTRACK_TEST_POSTGRES_URL not set")
	}

	storagetest.Run(t, func(t *testing.T) storage.TransactionStore {
		repo, err := storage.NewPostgresRepository(context.Background(), dsn)
		require.NoError(t, err)
		cleanPostgres(t, dsn)
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	})
}

// cleanPostgres empties the table without resetting its sequence, so
// monotonic ids keep holding across subtests.
func cleanPostgres(t *testing.T, dsn string) {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`DELETE FROM transactions`)
	require.NoError(t, err)
}
