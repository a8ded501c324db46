package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// EventPublisher announces committed ledger mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.TransactionEvent) error
	Close() error
}

// Ledger orchestrates transaction operations across the store and the
// change-event publisher. Store errors are returned unchanged so callers can
// classify them with errors.Is.
type Ledger struct {
	store     storage.TransactionStore
	publisher EventPublisher
	mutations metric.Int64Counter
}

// NewLedger wires a store with an optional publisher. A nil publisher
// disables change events.
func NewLedger(store storage.TransactionStore, publisher EventPublisher) *Ledger {
	mutations, err := otel.Meter("fintrack/internal/services").Int64Counter(
		"fintrack.ledger.mutations",
		metric.WithDescription("Committed ledger mutations by operation"),
	)
	if err != nil {
		slog.Warn("Failed to create ledger mutation counter", "error", err)
	}

	return &Ledger{
		store:     store,
		publisher: publisher,
		mutations: mutations,
	}
}

func (s *Ledger) Create(ctx context.Context, f core.Fields) (int64, error) {
	id, err := s.store.Create(ctx, f)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, amqp.OpCreated, id)
	return id, nil
}

func (s *Ledger) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *Ledger) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.List(ctx)
}

func (s *Ledger) Update(ctx context.Context, id int64, f core.Fields) error {
	if err := s.store.Update(ctx, id, f); err != nil {
		return err
	}

	s.publish(ctx, amqp.OpUpdated, id)
	return nil
}

func (s *Ledger) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.OpDeleted, id)
	return nil
}

// Summarize recomputes the totals from the live store contents.
func (s *Ledger) Summarize(ctx context.Context) (core.Summary, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(txs), nil
}

// Ping reports whether the underlying store is reachable.
func (s *Ledger) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish counts and announces a committed mutation. It never fails the
// caller since the store write already happened.
func (s *Ledger) publish(ctx context.Context, op amqp.Operation, id int64) {
	if s.mutations != nil {
		s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", string(op))))
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping event", "op", op, "id", id)
		return
	}

	if err := s.publisher.Publish(ctx, amqp.NewTransactionEvent(op, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"op", op, "id", id, "error", err)
	}
}

// Close closes both the store and the publisher.
func (s *Ledger) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger: %w", errors.Join(errs...))
	}

	return nil
}
