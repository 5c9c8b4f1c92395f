package history_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"secretlens/internal/history"
	"secretlens/internal/lens"
	"secretlens/internal/testutil"
)

func entry(id string, line int, action lens.Action, at time.Time) *lens.HistoryEntry {
	return &lens.HistoryEntry{
		ID:          id,
		OperationID: "op-1",
		Document:    "/work/secrets.env",
		Line:        line,
		Action:      action,
		CreatedAt:   at,
	}
}

// exerciseStore runs the behaviour every HistoryStore must share.
func exerciseStore(t *testing.T, store lens.HistoryStore) {
	t.Helper()

	clock := testutil.TickingClock(time.Second)
	for i, action := range []lens.Action{lens.ActionEncrypt, lens.ActionEncrypt, lens.ActionDecrypt} {
		e := entry(string(rune('a'+i)), i, action, clock.Now())
		if err := store.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	all, err := store.List(0)
	if err != nil {
		t.Fatalf("List(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(0) returned %d entries, want 3", len(all))
	}
	if all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("order = %s,%s,%s; want newest first c,b,a", all[0].ID, all[1].ID, all[2].ID)
	}

	got := all[0]
	if got.Action != lens.ActionDecrypt || got.Line != 2 || got.OperationID != "op-1" || got.Document != "/work/secrets.env" {
		t.Errorf("entry = %+v", got)
	}
	if want := testutil.FixedClock().Now().Add(2 * time.Second); !got.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "c" || limited[1].ID != "b" {
		t.Errorf("List(2) = %d entries, want c,b", len(limited))
	}
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, testutil.NewTestHistory(t))
}

func TestSQLiteStore_SameTimestampKeepsInsertOrder(t *testing.T) {
	store := testutil.NewTestHistory(t)
	at := testutil.FixedClock().Now()

	for _, id := range []string{"first", "second"} {
		if err := store.Record(entry(id, 0, lens.ActionEncrypt, at)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "second" {
		t.Errorf("List() first ID = %q, want second", got[0].ID)
	}
}

func TestSQLiteStore_RejectsDuplicateID(t *testing.T) {
	store := testutil.NewTestHistory(t)
	at := testutil.FixedClock().Now()

	if err := store.Record(entry("dup", 0, lens.ActionEncrypt, at)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(entry("dup", 1, lens.ActionEncrypt, at)); err == nil {
		t.Error("Record() with duplicate ID error = nil, want constraint error")
	}
}

func TestSQLiteStore_RejectsUnknownAction(t *testing.T) {
	store := testutil.NewTestHistory(t)

	if err := store.Record(entry("x", 0, lens.Action("rotate"), time.Now())); err == nil {
		t.Error("Record() with unknown action error = nil, want check constraint error")
	}
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), history.DatabaseFile)

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Record(entry("kept", 4, lens.ActionEncrypt, time.Now())); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := history.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() reopen error = %v", err)
	}
	defer reopened.Close()

	state, err := reopened.SchemaState()
	if err != nil {
		t.Fatalf("SchemaState() error = %v", err)
	}
	if err := state.Err(); err != nil {
		t.Errorf("SchemaState().Err() = %v, want nil", err)
	}
	got, err := reopened.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "kept" || got[0].Line != 4 {
		t.Errorf("List() = %+v, want the recorded entry", got)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, history.NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := history.NewMemoryStore()
	e := entry("a", 0, lens.ActionEncrypt, time.Now())
	if err := store.Record(e); err != nil {
		t.Fatal(err)
	}
	e.Line = 99

	got, _ := store.List(0)
	got[0].Document = "mutated"

	again, _ := store.List(0)
	if again[0].Line != 0 || again[0].Document != "/work/secrets.env" {
		t.Errorf("stored entry was mutated through a caller's pointer: %+v", again[0])
	}
}

func TestSQLiteStore_UsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), history.DatabaseFile)

	db, err := history.OpenConnection(path)
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("reading journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpenSQLiteStore(t *testing.T) {
	t.Run("reads a migrated database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), history.DatabaseFile)
		store, err := history.NewSQLiteStore(path)
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		if err := store.Record(entry("kept", 0, lens.ActionDecrypt, time.Now())); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		store.Close()

		reader, err := history.OpenSQLiteStore(path)
		if err != nil {
			t.Fatalf("OpenSQLiteStore() error = %v", err)
		}
		defer reader.Close()

		got, err := reader.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "kept" {
			t.Errorf("List() = %+v, want the recorded entry", got)
		}
	})

	t.Run("refuses an unmigrated database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), history.DatabaseFile)
		db, err := history.OpenConnection(path)
		if err != nil {
			t.Fatalf("OpenConnection() error = %v", err)
		}
		db.Close()

		_, err = history.OpenSQLiteStore(path)
		if !errors.Is(err, history.ErrSchemaMissing) {
			t.Errorf("OpenSQLiteStore() error = %v, want ErrSchemaMissing", err)
		}

		var tables int
		check, _ := history.OpenConnection(path)
		defer check.Close()
		if err := check.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table'").Scan(&tables); err != nil {
			t.Fatalf("counting tables: %v", err)
		}
		if tables != 0 {
			t.Errorf("OpenSQLiteStore created %d tables, want none", tables)
		}
	})
}
