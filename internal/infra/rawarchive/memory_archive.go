package rawarchive

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

// MemoryArchive keeps archived replies in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]string
	now     func() time.Time
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]string), now: time.Now}
}

// Save stores text under the same key layout as ObjectArchive.
func (a *MemoryArchive) Save(_ context.Context, fp flowgen.Fingerprint, status flowgen.UsageStatus, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[objectKey(a.now(), fp, status)] = text
	return nil
}

// Get returns the archived text for key.
func (a *MemoryArchive) Get(key string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	text, ok := a.objects[key]
	return text, ok
}

var _ flowgen.RawArchive = (*MemoryArchive)(nil)
