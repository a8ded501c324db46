package memory

import (
	"context"
	"slices"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

// Sink keeps the last exported snapshot in memory. It stands in for the
// spreadsheet when no Google credentials are configured.
type Sink struct {
	mu      sync.Mutex
	last    sheets.Snapshot
	rows    [][]any
	exports int
}

var _ sheets.LedgerExporter = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

func (s *Sink) Export(ctx context.Context, snap sheets.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Transactions = slices.Clone(snap.Transactions)
	s.last = snap
	s.rows = sheets.Rows(snap)
	s.exports++
	return nil
}

// Last returns the most recent snapshot and whether one was exported.
func (s *Sink) Last() (sheets.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.last
	snap.Transactions = slices.Clone(snap.Transactions)
	return snap, s.exports > 0
}

// Rows returns the grid as it would appear in the sheet.
func (s *Sink) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rows)
}

func (s *Sink) Exports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}

// Transaction looks a record up in the last snapshot.
func (s *Sink) Transaction(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.last.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}
