package flowcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

func TestMemoryStoreFreshness(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	name := "Flow"

	require.NoError(t, store.Put(ctx, flowgen.CacheEntry{
		Fingerprint: "abc",
		Prompt:      "prompt",
		Raw:         flowgen.RawModelFlow{FlowName: &name},
		CreatedAt:   now.Add(-time.Hour),
	}))

	entry, ok, err := store.Get(ctx, "abc", now.Add(-flowgen.DefaultCacheTTL))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Flow", *entry.Raw.FlowName)

	_, ok, err = store.Get(ctx, "abc", now)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Get(ctx, "missing", time.Time{})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreEvictionKeepsConcurrentRefresh(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	cutoff := now.Add(-flowgen.DefaultCacheTTL)
	name := "Fresh"

	require.NoError(t, store.Put(ctx, flowgen.CacheEntry{Fingerprint: "abc", CreatedAt: cutoff.Add(-time.Hour)}))
	// A refresh lands after Get saw the stale entry but before it evicts.
	require.NoError(t, store.Put(ctx, flowgen.CacheEntry{
		Fingerprint: "abc",
		Raw:         flowgen.RawModelFlow{FlowName: &name},
		CreatedAt:   now,
	}))
	store.evictStale("abc", cutoff)

	entry, ok, err := store.Get(ctx, "abc", cutoff)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Fresh", *entry.Raw.FlowName)

	store.evictStale("abc", now.Add(time.Minute))
	_, ok, err = store.Get(ctx, "abc", time.Time{})
	require.NoError(t, err)
	require.False(t, ok)
}
