package history

import (
	"database/sql"
	"fmt"
	"time"

	"secretlens/internal/lens"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements lens.HistoryStore using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ lens.HistoryStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at path (or ":memory:") and migrates it
// to the latest schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// OpenSQLiteStore opens an existing database for reading without upgrading
// it. The schema must already be at the latest version.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := CheckSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing, already migrated connection.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenConnection opens and configures a SQLite database connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	// An in-memory database lives as long as its connection and has no
	// journal to switch to WAL.
	if path == ":memory:" {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// SchemaState reports the schema version of the underlying database.
func (s *SQLiteStore) SchemaState() (SchemaState, error) {
	return ReadSchemaState(s.db)
}

// Record inserts a history entry.
func (s *SQLiteStore) Record(entry *lens.HistoryEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO transforms (id, operation_id, document, line, action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OperationID, entry.Document, entry.Line, string(entry.Action), entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *SQLiteStore) List(limit int) ([]*lens.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(
		`SELECT id, operation_id, document, line, action, created_at
		 FROM transforms
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []*lens.HistoryEntry
	for rows.Next() {
		var (
			e         lens.HistoryEntry
			action    string
			createdAt time.Time
		)
		if err := rows.Scan(&e.ID, &e.OperationID, &e.Document, &e.Line, &action, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.Action = lens.Action(action)
		e.CreatedAt = createdAt
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
