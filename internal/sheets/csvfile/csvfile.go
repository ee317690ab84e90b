// Package csvfile implements the record store on a local CSV file with the
// canonical header layout.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"finanzas/internal/core"
	ports "finanzas/internal/sheets"
)

// Store reads and fully rewrites a single CSV file. The mutex serializes
// writers within this process only; cross-process writers still race with
// last-writer-wins semantics.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ ports.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the file into raw rows keyed by the header row. A missing
// file or a header-only file is an empty store, not an error.
func (s *Store) Load(_ context.Context) ([]core.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []core.RawRow{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	lines, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(lines) == 0 {
		return []core.RawRow{}, nil
	}

	headers := lines[0]
	rows := make([]core.RawRow, 0, len(lines)-1)
	for _, cells := range lines[1:] {
		row := make(core.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReplaceAll rewrites the whole file: header first, then the records in
// the given order. The write goes through a temp file and a rename so a
// failed save never leaves a half-written store behind.
func (s *Store) ReplaceAll(_ context.Context, records []core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".finanzas-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(core.PersistedHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.PersistedRow()); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
