package history

import (
	"sync"

	"secretlens/internal/lens"
)

// MemoryStore is an in-memory implementation of lens.HistoryStore.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries []*lens.HistoryEntry
}

var _ lens.HistoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(entry *lens.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	s.entries = append(s.entries, &e)
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *MemoryStore) List(limit int) ([]*lens.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*lens.HistoryEntry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		e := *s.entries[i]
		out = append(out, &e)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
