package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

// Lister is the read side the worker needs from the ledger store.
type Lister interface {
	List(ctx context.Context) ([]core.Transaction, error)
}

// MirrorWorker keeps an external copy of the ledger in step with the store.
// Events only signal that something changed; every sync rewrites the full
// ledger, so lost or reordered events heal on the next one.
type MirrorWorker struct {
	source   Lister
	exporter sheets.LedgerExporter
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSync time.Time
	syncs    int
}

func NewMirrorWorker(source Lister, exporter sheets.LedgerExporter, interval time.Duration) *MirrorWorker {
	return &MirrorWorker{
		source:   source,
		exporter: exporter,
		interval: interval,
		now:      time.Now,
	}
}

// HandleEvent is the AMQP consumer callback. An error requeues the event.
func (w *MirrorWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"op", event.Op,
		"id", event.ID)

	if err := w.Sync(ctx); err != nil {
		return fmt.Errorf("mirror after %s %d: %w", event.Op, event.ID, err)
	}
	return nil
}

// Sync exports the current ledger and its summary. Concurrent calls run
// one after another.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	records, err := w.source.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	snap := sheets.Snapshot{
		Transactions: records,
		Summary:      core.Summarize(records),
		TakenAt:      w.now(),
	}
	if err := w.exporter.Export(ctx, snap); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}

	w.lastSync = snap.TakenAt
	w.syncs++
	slog.DebugContext(ctx, "Ledger mirrored",
		"transactions", len(records),
		"balance", snap.Summary.Balance.String())
	return nil
}

// Run syncs once at startup and then on every tick until ctx ends. Failed
// periodic syncs are logged and retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context) error {
	if err := w.Sync(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.ErrorContext(ctx, "Startup sync failed", "error", err)
	}

	if w.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Mirror worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

// Stats returns the number of successful syncs and when the last one ran.
func (w *MirrorWorker) Stats() (int, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncs, w.lastSync
}
