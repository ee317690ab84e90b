// Package memory implements an in-process record store for development and
// tests.
package memory

import (
	"context"
	"sync"

	"finanzas/internal/core"
	ports "finanzas/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []core.RawRow
}

var _ ports.Store = (*Store)(nil)

// New creates a store seeded with the given raw rows.
func New(rows []core.RawRow) *Store {
	s := &Store{}
	for _, r := range rows {
		s.rows = append(s.rows, cloneRow(r))
	}
	return s
}

// Load returns a copy of the current row set.
func (s *Store) Load(_ context.Context) ([]core.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.RawRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, cloneRow(r))
	}
	return out, nil
}

// ReplaceAll swaps the whole row set for the serialized records, exactly
// like the file-backed stores do.
func (s *Store) ReplaceAll(_ context.Context, records []core.ExpenseRecord) error {
	rows := make([]core.RawRow, 0, len(records))
	for _, rec := range records {
		cells := rec.PersistedRow()
		row := make(core.RawRow, len(core.PersistedHeader))
		for i, h := range core.PersistedHeader {
			row[h] = cells[i]
		}
		rows = append(rows, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	return nil
}

func cloneRow(r core.RawRow) core.RawRow {
	out := make(core.RawRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
