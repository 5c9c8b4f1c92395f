package testutil

import (
	"testing"

	"secretlens/internal/history"
)

// NewTestHistory creates a new in-memory SQLite history store with the schema
// migrated. The store is automatically closed when the test completes.
func NewTestHistory(t *testing.T) *history.SQLiteStore {
	t.Helper()

	sqlDB, err := history.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := history.Migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to migrate schema: %v", err)
	}

	store := history.NewSQLiteStoreFromDB(sqlDB)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
