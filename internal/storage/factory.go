package storage

import (
	"fmt"
	"strings"

	"github.com/pawfetch/pawfetch/internal/colors"
	"github.com/pawfetch/pawfetch/internal/config"
	"github.com/pawfetch/pawfetch/internal/storage/sqlite"
)

const (
	// BackendSQLite selects the on-disk SQLite store.
	BackendSQLite = "sqlite"
	// BackendMemory selects the in-process store.
	BackendMemory = "memory"
)

var _ Store = (*sqliteStore)(nil)

var openSQLite = sqlite.NewSQLiteStorage

// NewFromConfig creates a store based on the loaded configuration.
func NewFromConfig() (Store, error) {
	return NewForBackend(config.Get("storage_backend", BackendSQLite), config.Get("session_db", ""))
}

// NewForBackend creates a store for the provided backend name. A SQLite
// store that cannot be opened falls back to memory with a warning.
func NewForBackend(backend, dbPath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		s, err := openSQLite(dbPath)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to open session database, sessions will not persist: %v", err))
			return NewMemoryStore(), nil
		}
		return &sqliteStore{s}, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
