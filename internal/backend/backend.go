// Package backend selects and constructs the persistence collaborator
// for the ledger based on configuration.
package backend

import (
	"fmt"
	"log/slog"

	"ledger/internal/ledger"
	"ledger/internal/persistence/file"
	"ledger/internal/persistence/memory"
	"ledger/internal/storage"
)

// Type identifies a persistence backend.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Config holds what each backend needs to construct itself.
type Config struct {
	Type Type

	// File backend
	FilePath string

	// SQLite backend
	SQLiteDBPath string
}

// Result contains the constructed store and an optional cleanup.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// New constructs the store for the configured backend type.
func New(config Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil

	default:
		store := file.New(config.FilePath)
		logger.Info("Initialized file backend", "path", config.FilePath)
		return &Result{Store: store}, nil
	}
}
