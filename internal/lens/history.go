package lens

import (
	"time"

	"github.com/google/uuid"
)

// Action names a line transform.
type Action string

const (
	ActionEncrypt Action = "encrypt"
	ActionDecrypt Action = "decrypt"
)

// HistoryEntry records that a line of a document was transformed.
// It never holds line contents or the passphrase.
type HistoryEntry struct {
	ID          string
	OperationID string
	Document    string
	Line        int
	Action      Action
	CreatedAt   time.Time
}

// HistoryStore persists transform history.
type HistoryStore interface {
	// Record appends an entry.
	Record(entry *HistoryEntry) error

	// List returns up to limit entries, newest first.
	List(limit int) ([]*HistoryEntry, error)

	// Close releases the underlying storage.
	Close() error
}

// NopHistory is a HistoryStore that keeps nothing.
type NopHistory struct{}

func (NopHistory) Record(*HistoryEntry) error        { return nil }
func (NopHistory) List(int) ([]*HistoryEntry, error) { return nil, nil }
func (NopHistory) Close() error                      { return nil }

// Clock stamps history entries.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC so stored entries order the same
// whatever zone the machine is in.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator names toggle operations and the entries they record.
type IDGenerator interface {
	New() string
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
