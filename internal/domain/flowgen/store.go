package flowgen

import (
	"context"
	"time"
)

// CacheStore persists raw flows keyed by request fingerprint.
type CacheStore interface {
	// Get returns the newest entry for fp created at or after notBefore.
	Get(ctx context.Context, fp Fingerprint, notBefore time.Time) (CacheEntry, bool, error)
	Put(ctx context.Context, entry CacheEntry) error
}

// UsageLog records one row per pipeline run.
type UsageLog interface {
	Append(ctx context.Context, record UsageRecord) error
}
