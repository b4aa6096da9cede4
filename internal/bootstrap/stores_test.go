package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ai-flowgen/internal/infra/config"
	"github.com/yanqian/ai-flowgen/internal/infra/flowcache"
	"github.com/yanqian/ai-flowgen/internal/infra/usagelog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheStoreSelection(t *testing.T) {
	cases := map[string]struct {
		cfg        config.Config
		wantMemory bool
	}{
		"memory by default": {
			cfg:        config.Config{Cache: config.CacheConfig{Backend: config.CacheMemory}},
			wantMemory: true,
		},
		"postgres down falls back": {
			cfg:        config.Config{Cache: config.CacheConfig{Backend: config.CachePostgres}},
			wantMemory: true,
		},
		"postgres down and required": {
			cfg: config.Config{
				Cache:   config.CacheConfig{Backend: config.CachePostgres},
				Storage: config.StorageConfig{Required: true},
			},
		},
		"valkey down falls back": {
			cfg: config.Config{
				Cache:  config.CacheConfig{Backend: config.CacheValkey},
				Valkey: config.ValkeyConfig{Addr: "127.0.0.1:1"},
			},
			wantMemory: true,
		},
		"valkey down and required": {
			cfg: config.Config{
				Cache:   config.CacheConfig{Backend: config.CacheValkey},
				Valkey:  config.ValkeyConfig{Addr: "127.0.0.1:1"},
				Storage: config.StorageConfig{Required: true},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store, closeFn := CacheStore(&tc.cfg, nil, discardLogger())
			require.NotNil(t, closeFn)
			defer closeFn()
			if tc.wantMemory {
				require.IsType(t, &flowcache.MemoryStore{}, store)
				return
			}
			require.Nil(t, store)
		})
	}
}

func TestUsageLogSelection(t *testing.T) {
	cfg := &config.Config{}
	require.IsType(t, &usagelog.MemoryLog{}, UsageLog(cfg, nil, discardLogger()))

	cfg.Postgres.DSN = "postgres://unreachable"
	require.IsType(t, &usagelog.MemoryLog{}, UsageLog(cfg, nil, discardLogger()))

	cfg.Storage.Required = true
	require.Nil(t, UsageLog(cfg, nil, discardLogger()))
}

func TestPostgresPoolWithoutDSN(t *testing.T) {
	pool, closeFn, err := PostgresPool(context.Background(), &config.Config{}, discardLogger())
	require.NoError(t, err)
	require.Nil(t, pool)
	closeFn()
}

func TestRawArchiveDisabled(t *testing.T) {
	require.Nil(t, RawArchive(&config.Config{}, discardLogger()))
}
