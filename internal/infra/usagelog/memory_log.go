package usagelog

import (
	"context"
	"sync"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

// MemoryLog keeps usage records in process memory.
type MemoryLog struct {
	mu      sync.Mutex
	records []flowgen.UsageRecord
}

// NewMemoryLog constructs an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append implements flowgen.UsageLog.
func (l *MemoryLog) Append(_ context.Context, record flowgen.UsageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// Records returns a copy of everything appended so far.
func (l *MemoryLog) Records() []flowgen.UsageRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]flowgen.UsageRecord, len(l.records))
	copy(out, l.records)
	return out
}

var _ flowgen.UsageLog = (*MemoryLog)(nil)
