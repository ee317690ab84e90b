// Package storage implements the record store on a local SQLite file. It
// is a drop-in alternative to the CSV and Sheets stores for setups that
// want a real database file; the full-replace write maps onto a single
// transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/core"
	ports "finanzas/internal/sheets"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ ports.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every record in position order and presents it in the
// canonical raw-row shape, exactly like the file-backed stores.
func (s *SQLiteStore) Load(ctx context.Context) ([]core.RawRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, item, amount_cents, due_date, paid FROM records ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []core.RawRow{}
	for rows.Next() {
		var (
			category, item, dueDate string
			amountCents             int64
			paid                    bool
		)
		if err := rows.Scan(&category, &item, &amountCents, &dueDate, &paid); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec := core.ExpenseRecord{
			Category: core.Category(category),
			Item:     item,
			Amount:   core.Money{Cents: amountCents},
			Paid:     paid,
		}
		cells := rec.PersistedRow()
		row := make(core.RawRow, len(core.PersistedHeader))
		for i, h := range core.PersistedHeader {
			row[h] = cells[i]
		}
		// The date column is already canonical text; no reformatting.
		row["DueDate"] = dueDate
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// ReplaceAll swaps the whole table for the given records in one
// transaction, preserving the presented order via the position column.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, records []core.ExpenseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (position, category, item, amount_cents, due_date, paid) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			i, string(rec.Category), rec.Item, rec.Amount.Cents, rec.DueDate.ISO(), rec.Paid); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Replaced record table", "rows", len(records))
	return nil
}
