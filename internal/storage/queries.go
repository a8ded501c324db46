package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DBTX is the subset of *sql.DB the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) RowScanner
}

// RowScanner is satisfied by *sql.Row.
type RowScanner interface {
	Scan(dest ...any) error
}

// Dialect selects placeholder syntax.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// InsertResult carries the id assigned to a new row.
type InsertResult struct {
	InsertedID int64
}

// ExecResult carries the number of rows an update or delete touched.
// Affected == 0 means the addressed id does not exist.
type ExecResult struct {
	Affected int64
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	ID          int64
	Type        string
	Category    string
	Amount      decimal.Decimal
	Date        string
	Description sql.NullString
}

// TransactionParams binds a row for insert or update. Invalid values are
// written as NULL.
type TransactionParams struct {
	Type        sql.NullString
	Category    sql.NullString
	Amount      decimal.NullDecimal
	Date        sql.NullString
	Description *string
}

type Queries struct {
	db      DBTX
	dialect Dialect
}

func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders to $N for postgres.
func (q *Queries) rebind(query string) string {
	if q.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

const createTransaction = `INSERT INTO transactions (type, category, amount, date, description)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateTransaction(ctx context.Context, arg TransactionParams) (InsertResult, error) {
	var res InsertResult
	row := q.db.QueryRowContext(ctx, q.rebind(createTransaction),
		arg.Type, arg.Category, arg.Amount, arg.Date, arg.Description)
	err := row.Scan(&res.InsertedID)
	return res, err
}

const getTransaction = `SELECT id, type, category, amount, date, description
FROM transactions
WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (TransactionRow, error) {
	var r TransactionRow
	row := q.db.QueryRowContext(ctx, q.rebind(getTransaction), id)
	err := row.Scan(&r.ID, &r.Type, &r.Category, &r.Amount, &r.Date, &r.Description)
	return r, err
}

const listTransactions = `SELECT id, type, category, amount, date, description
FROM transactions
ORDER BY id`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []TransactionRow{}
	for rows.Next() {
		var r TransactionRow
		if err := rows.Scan(&r.ID, &r.Type, &r.Category, &r.Amount, &r.Date, &r.Description); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `UPDATE transactions
SET type = ?, category = ?, amount = ?, date = ?, description = ?
WHERE id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, id int64, arg TransactionParams) (ExecResult, error) {
	result, err := q.db.ExecContext(ctx, q.rebind(updateTransaction),
		arg.Type, arg.Category, arg.Amount, arg.Date, arg.Description, id)
	if err != nil {
		return ExecResult{}, err
	}
	n, err := result.RowsAffected()
	return ExecResult{Affected: n}, err
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (ExecResult, error) {
	result, err := q.db.ExecContext(ctx, q.rebind(deleteTransaction), id)
	if err != nil {
		return ExecResult{}, err
	}
	n, err := result.RowsAffected()
	return ExecResult{Affected: n}, err
}
