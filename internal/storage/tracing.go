package storage

import (
	"context"
	"database/sql"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var dbTracer = otel.Tracer("fintrack/storage")

// tracedDB wraps *sql.DB so every statement gets a span. Queries are fully
// parameterized, so statements are recorded verbatim.
type tracedDB struct {
	db     *sql.DB
	system string
}

func newTracedDB(db *sql.DB, dialect Dialect) *tracedDB {
	system := "sqlite"
	if dialect == DialectPostgres {
		system = "postgresql"
	}
	return &tracedDB{db: db, system: system}
}

func (t *tracedDB) start(ctx context.Context, name, query string) (context.Context, trace.Span) {
	return dbTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("db.system", t.system),
		attribute.String("db.operation", sqlVerb(query)),
		attribute.String("db.statement", query),
	))
}

func (t *tracedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, span := t.start(ctx, "db.Exec", query)
	defer span.End()

	result, err := t.db.ExecContext(ctx, query, args...)
	recordErr(span, err)
	return result, err
}

func (t *tracedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, span := t.start(ctx, "db.Query", query)
	defer span.End()

	rows, err := t.db.QueryContext(ctx, query, args...)
	recordErr(span, err)
	return rows, err
}

// QueryRowContext keeps the span open until Scan, where *sql.Row reports
// its errors.
func (t *tracedDB) QueryRowContext(ctx context.Context, query string, args ...any) RowScanner {
	ctx, span := t.start(ctx, "db.QueryRow", query)
	return &tracedRow{row: t.db.QueryRowContext(ctx, query, args...), span: span}
}

type tracedRow struct {
	row  *sql.Row
	span trace.Span
}

func (r *tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		if err != sql.ErrNoRows {
			recordErr(r.span, err)
		}
		r.span.End()
		r.span = nil
	}
	return err
}

func recordErr(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func sqlVerb(q string) string {
	q = strings.TrimSpace(q)
	if idx := strings.IndexAny(q, " \n"); idx > 0 {
		return strings.ToUpper(q[:idx])
	}
	return strings.ToUpper(q)
}
