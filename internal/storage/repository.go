package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLRepository implements TransactionStore on top of database/sql.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	queries *Queries
}

var _ TransactionStore = (*SQLRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database file at
// dbPath and brings its schema up to date.
func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writes and keeps pragmas in effect.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := RunMigrations(DialectSQLite, dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return newRepository(db, DialectSQLite), nil
}

// NewPostgresRepository connects to the database at dsn and brings its
// schema up to date.
func NewPostgresRepository(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(DialectPostgres, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return newRepository(db, DialectPostgres), nil
}

func newRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{
		db:      db,
		dialect: dialect,
		queries: New(newTracedDB(db, dialect), dialect),
	}
}

func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return core.WrapStorage("ping", err)
	}
	return nil
}

func (r *SQLRepository) Create(ctx context.Context, f core.Fields) (int64, error) {
	if err := f.ValidateForCreate(); err != nil {
		return 0, err
	}

	res, err := r.queries.CreateTransaction(ctx, paramsFrom(f))
	if err != nil {
		return 0, core.WrapStorage("create", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", res.InsertedID,
		"type", f.Type,
		"category", f.Category,
		"amount", f.Amount.String(),
		"backend", r.dialect)

	return res.InsertedID, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	if err != nil {
		return core.Transaction{}, core.WrapStorage("get", err)
	}
	return row.toCore(), nil
}

func (r *SQLRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, core.WrapStorage("list", err)
	}

	items := make([]core.Transaction, len(rows))
	for i, row := range rows {
		items[i] = row.toCore()
	}
	return items, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, f core.Fields) error {
	res, err := r.queries.UpdateTransaction(ctx, id, paramsFrom(f))
	if err != nil {
		return core.WrapStorage("update", err)
	}
	if res.Affected == 0 {
		return &core.NotFoundError{ID: id}
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "backend", r.dialect)
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return core.WrapStorage("delete", err)
	}
	if res.Affected == 0 {
		return &core.NotFoundError{ID: id}
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "backend", r.dialect)
	return nil
}

// paramsFrom leaves absent fields NULL so the NOT NULL constraints decide.
func paramsFrom(f core.Fields) TransactionParams {
	return TransactionParams{
		Type:        nullString(string(f.Type), !f.IsAbsent(core.FieldType)),
		Category:    nullString(f.Category, !f.IsAbsent(core.FieldCategory)),
		Amount:      decimal.NullDecimal{Decimal: f.Amount, Valid: !f.IsAbsent(core.FieldAmount)},
		Date:        nullString(f.Date, !f.IsAbsent(core.FieldDate)),
		Description: f.Description,
	}
}

func nullString(s string, valid bool) sql.NullString {
	return sql.NullString{String: s, Valid: valid}
}

func (r TransactionRow) toCore() core.Transaction {
	t := core.Transaction{
		ID: r.ID,
		Fields: core.Fields{
			Type:     core.TransactionType(r.Type),
			Category: r.Category,
			Amount:   r.Amount,
			Date:     r.Date,
		},
	}
	if r.Description.Valid {
		t.Description = core.StringPtr(r.Description.String)
	}
	return t
}
