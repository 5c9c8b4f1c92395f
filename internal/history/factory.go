package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"secretlens/internal/config"
	"secretlens/internal/lens"
)

// DatabaseFile is the name of the SQLite history file inside data_dir.
const DatabaseFile = "history.db"

// NewStoreFromConfig creates a HistoryStore based on the history config type.
func NewStoreFromConfig(cfg config.HistoryConfig) (lens.HistoryStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite history")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.DataDir, DatabaseFile))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	case "none", "":
		return lens.NopHistory{}, nil
	default:
		return nil, fmt.Errorf("unknown history type: %s", cfg.Type)
	}
}

// OpenStoreFromConfig opens the configured store for listing only. A sqlite
// database that does not exist yet reads as empty and is not created, and an
// existing one is checked rather than upgraded.
func OpenStoreFromConfig(cfg config.HistoryConfig) (lens.HistoryStore, error) {
	if cfg.Type != "sqlite" {
		return NewStoreFromConfig(cfg)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir required for sqlite history")
	}

	path := filepath.Join(cfg.DataDir, DatabaseFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return lens.NopHistory{}, nil
	}
	s, err := OpenSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
