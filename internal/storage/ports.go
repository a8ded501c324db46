package storage

import (
	"context"

	"fintrack/internal/core"
)

// TransactionStore owns the durable collection of transaction records.
//
// Create validates mandatory fields; Update does not. Missing ids are
// reported as *core.NotFoundError and every persistence failure as
// *core.StorageError.
type TransactionStore interface {
	Create(ctx context.Context, f core.Fields) (int64, error)
	Get(ctx context.Context, id int64) (core.Transaction, error)
	List(ctx context.Context) ([]core.Transaction, error)
	Update(ctx context.Context, id int64, f core.Fields) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}
