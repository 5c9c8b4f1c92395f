package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Schema problems found when opening an existing history database.
var (
	ErrSchemaMissing  = errors.New("history database has no schema")
	ErrSchemaDirty    = errors.New("history schema upgrade did not complete")
	ErrSchemaOutdated = errors.New("history schema is older than this build")
	ErrSchemaNewer    = errors.New("history schema was written by a newer build")
)

// SchemaState is the schema version recorded in a history database next to
// the newest version this build ships. Version is 0 for an empty database.
type SchemaState struct {
	Version uint
	Latest  uint
	Dirty   bool
}

// Err maps the state to one of the ErrSchema errors, or nil when the
// database can be used as is.
func (s SchemaState) Err() error {
	switch {
	case s.Dirty:
		return fmt.Errorf("%w (version %d)", ErrSchemaDirty, s.Version)
	case s.Version == 0:
		return ErrSchemaMissing
	case s.Version < s.Latest:
		return fmt.Errorf("%w (version %d, want %d)", ErrSchemaOutdated, s.Version, s.Latest)
	case s.Version > s.Latest:
		return fmt.Errorf("%w (version %d, want %d)", ErrSchemaNewer, s.Version, s.Latest)
	}
	return nil
}

// Migrate brings the transforms schema of db up to date.
func Migrate(db *sql.DB) error {
	m, err := newSchemaMigrator(db)
	if err != nil {
		return err
	}
	// m is not closed: closing it would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("upgrading history schema: %w", err)
	}
	return nil
}

// ReadSchemaState inspects db without changing it. The version table is
// queried directly because the migrate driver creates it on first use.
func ReadSchemaState(db *sql.DB) (SchemaState, error) {
	latest, err := latestSchemaVersion()
	if err != nil {
		return SchemaState{}, err
	}
	state := SchemaState{Latest: latest}

	var n int
	err = db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		sqlite3.DefaultMigrationsTable,
	).Scan(&n)
	if err != nil {
		return state, fmt.Errorf("reading history schema version: %w", err)
	}
	if n == 0 {
		return state, nil
	}

	var version int64
	err = db.QueryRow(
		fmt.Sprintf(`SELECT version, dirty FROM %q LIMIT 1`, sqlite3.DefaultMigrationsTable),
	).Scan(&version, &state.Dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("reading history schema version: %w", err)
	}
	if version > 0 {
		state.Version = uint(version)
	}
	return state, nil
}

// CheckSchema returns nil if db is at the latest schema version.
func CheckSchema(db *sql.DB) error {
	state, err := ReadSchemaState(db)
	if err != nil {
		return err
	}
	return state.Err()
}

func newSchemaMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(schemaFiles, "schema")
	if err != nil {
		return nil, fmt.Errorf("loading history schema: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("preparing history database: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("preparing history schema upgrade: %w", err)
	}
	return m, nil
}

// latestSchemaVersion is the highest version among the embedded files.
func latestSchemaVersion() (uint, error) {
	entries, err := fs.ReadDir(schemaFiles, "schema")
	if err != nil {
		return 0, fmt.Errorf("listing history schema: %w", err)
	}
	var latest uint
	for _, e := range entries {
		mig, err := source.Parse(e.Name())
		if err != nil {
			return 0, fmt.Errorf("history schema file %s: %w", e.Name(), err)
		}
		if mig.Version > latest {
			latest = mig.Version
		}
	}
	return latest, nil
}
