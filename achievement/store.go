package achievement

import (
	"maps"
	"time"
)

// Store persists unlock times by title.
type Store interface {
	LoadUnlocked() (map[string]time.Time, error)
	// SaveUnlock is idempotent; the first recorded time wins.
	SaveUnlock(title string, at time.Time) error
	Reset() error
	Close() error
}

// MemoryStore keeps unlocks for the lifetime of the process. It backs tests
// and the degraded mode used when no persistent store opens.
type MemoryStore struct {
	unlocked map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{unlocked: make(map[string]time.Time)}
}

func (m *MemoryStore) LoadUnlocked() (map[string]time.Time, error) {
	return maps.Clone(m.unlocked), nil
}

func (m *MemoryStore) SaveUnlock(title string, at time.Time) error {
	if _, ok := m.unlocked[title]; !ok {
		m.unlocked[title] = at
	}
	return nil
}

func (m *MemoryStore) Reset() error {
	clear(m.unlocked)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
