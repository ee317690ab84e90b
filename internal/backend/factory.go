package backend

import (
	"context"
	"fmt"

	"finanzas/internal/log"
	"finanzas/internal/sheets/csvfile"
	gsheet "finanzas/internal/sheets/google"
	"finanzas/internal/sheets/memory"
	"finanzas/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentStore),
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	switch config.Type {
	case CSVBackend:
		return f.createCSVStore(config)
	case SheetsBackend:
		return f.createSheetsStore(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteStore(config)
	case MemoryBackend:
		return f.createMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVStore(config Config) (*Result, error) {
	store := csvfile.New(config.CSVPath)

	f.logger.Info("Initialized CSV store", log.FieldBackend, CSVBackend.String(), "path", config.CSVPath)

	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createSheetsStore(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountFile: config.GoogleServiceAccountFile,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets store",
		log.FieldBackend, SheetsBackend.String(),
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet_name", config.GoogleSheetName)

	return &Result{Store: cli}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite store", log.FieldBackend, SQLiteBackend.String(), "db_path", config.SQLiteDBPath)

	return &Result{Store: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createMemoryStore() (*Result, error) {
	store := memory.New(nil)

	f.logger.Info("Initialized in-memory store", log.FieldBackend, MemoryBackend.String())

	return &Result{Store: store}, nil
}
