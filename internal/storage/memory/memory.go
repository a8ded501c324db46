package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var _ storage.TransactionStore = (*Store)(nil)

// Store keeps transactions in process memory. It applies the same
// constraints as the SQL schema so that it can stand in for it in tests.
type Store struct {
	mu     sync.Mutex
	lastID int64
	items  []core.Transaction
}

func New() *Store {
	return &Store{}
}

func (s *Store) Create(_ context.Context, f core.Fields) (int64, error) {
	if err := f.ValidateForCreate(); err != nil {
		return 0, err
	}
	if err := checkConstraints(f); err != nil {
		return 0, core.WrapStorage("create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.items = append(s.items, core.Transaction{ID: s.lastID, Fields: copyFields(f)})
	return s.lastID, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	return core.Transaction{ID: id, Fields: copyFields(s.items[i].Fields)}, nil
}

func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	for i, t := range s.items {
		out[i] = core.Transaction{ID: t.ID, Fields: copyFields(t.Fields)}
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, id int64, f core.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	if err := checkConstraints(f); err != nil {
		return core.WrapStorage("update", err)
	}
	s.items[i].Fields = copyFields(f)
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// indexOf relies on items being sorted by id, which holds because ids only
// grow and deletes preserve order.
func (s *Store) indexOf(id int64) int {
	lo, hi := 0, len(s.items)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case s.items[mid].ID == id:
			return mid
		case s.items[mid].ID < id:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1
}

// checkConstraints mirrors the NOT NULL and CHECK clauses of the table.
func checkConstraints(f core.Fields) error {
	for _, name := range []string{core.FieldType, core.FieldCategory, core.FieldAmount, core.FieldDate} {
		if f.IsAbsent(name) {
			return fmt.Errorf("NOT NULL constraint failed: transactions.%s", name)
		}
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("CHECK constraint failed: type IN ('income', 'expense'), got %q", f.Type)
	}
	return nil
}

func copyFields(f core.Fields) core.Fields {
	f.Absent = nil
	if f.Description != nil {
		f.Description = core.StringPtr(*f.Description)
	}
	return f
}
