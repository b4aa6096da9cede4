package flowgen

import (
	"context"
	"time"
)

// DefaultCacheTTL is how long a cached flow stays fresh.
const DefaultCacheTTL = 7 * 24 * time.Hour

// DefaultStoreTimeout bounds each cache, usage log and archive call.
const DefaultStoreTimeout = 3 * time.Second

// lookupCache returns a fresh cached flow. Store failures and timeouts count as a miss.
func (s *service) lookupCache(ctx context.Context, fp Fingerprint) (RawModelFlow, bool) {
	notBefore := s.now().Add(-s.cacheTTL())
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	entry, found, err := s.cache.Get(storeCtx, fp, notBefore)
	if err != nil {
		s.logger.Warn("flow cache lookup failed", "input_hash", fp, "error", err)
		return RawModelFlow{}, false
	}
	if !found || entry.CreatedAt.Before(notBefore) {
		return RawModelFlow{}, false
	}
	return entry.Raw, true
}

// writeCache stores a generated flow. Failures are logged and dropped.
func (s *service) writeCache(ctx context.Context, fp Fingerprint, prompt string, raw RawModelFlow) {
	entry := CacheEntry{
		Fingerprint: fp,
		Prompt:      prompt,
		Raw:         raw,
		CreatedAt:   s.now(),
	}
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.cache.Put(storeCtx, entry); err != nil {
		s.logger.Warn("flow cache write failed", "input_hash", fp, "error", err)
	}
}

func (s *service) cacheTTL() time.Duration {
	if s.cfg.CacheTTL > 0 {
		return s.cfg.CacheTTL
	}
	return DefaultCacheTTL
}
