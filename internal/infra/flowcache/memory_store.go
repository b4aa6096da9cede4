package flowcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

// MemoryStore is an in-process cache for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[flowgen.Fingerprint]flowgen.CacheEntry
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[flowgen.Fingerprint]flowgen.CacheEntry)}
}

// Get implements flowgen.CacheStore.
func (s *MemoryStore) Get(_ context.Context, fp flowgen.Fingerprint, notBefore time.Time) (flowgen.CacheEntry, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[fp]
	s.mu.RUnlock()
	if !ok {
		return flowgen.CacheEntry{}, false, nil
	}
	if entry.CreatedAt.Before(notBefore) {
		s.evictStale(fp, notBefore)
		return flowgen.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// evictStale removes the entry only if it is still older than notBefore. A Put
// may land between the read above and this write lock.
func (s *MemoryStore) evictStale(fp flowgen.Fingerprint, notBefore time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[fp]; ok && cur.CreatedAt.Before(notBefore) {
		delete(s.entries, fp)
	}
}

// Put overwrites any previous entry for the fingerprint.
func (s *MemoryStore) Put(_ context.Context, entry flowgen.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Fingerprint] = entry
	return nil
}

var _ flowgen.CacheStore = (*MemoryStore)(nil)
