package session

import (
	"context"
	"sync"
	"time"

	"github.com/iwvelando/capital-longevity/pkg/longevity"
)

type memoryEntry struct {
	memo      longevity.Result
	expiresAt time.Time
}

// MemoryStore keeps memos in process memory. Expired entries are dropped on
// access and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries live for ttl; a non-positive
// ttl keeps entries until Close.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the memo stored for id.
func (m *MemoryStore) Get(_ context.Context, id string) (longevity.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return longevity.Result{}, false, nil
	}
	if m.expired(entry) {
		delete(m.entries, id)
		return longevity.Result{}, false, nil
	}
	return entry.memo, true, nil
}

// Set stores memo for id and restarts its ttl.
func (m *MemoryStore) Set(_ context.Context, id string, memo longevity.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{memo: memo}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[id] = entry
	return nil
}

// Sweep removes every expired entry and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close drops all entries.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}
