package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/config"
	"github.com/yanqian/ai-flowgen/internal/infra/flowcache"
	"github.com/yanqian/ai-flowgen/internal/infra/postgres"
	"github.com/yanqian/ai-flowgen/internal/infra/rawarchive"
	"github.com/yanqian/ai-flowgen/internal/infra/tokenizer"
	"github.com/yanqian/ai-flowgen/internal/infra/usagelog"
)

const (
	postgresConnectTimeout = 30 * time.Second
	valkeyPingTimeout      = 2 * time.Second
)

// PostgresPool returns a nil pool when no DSN is set or the database is
// unreachable; stores then fall back according to storage.required.
// Migration failures are returned as errors.
func PostgresPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	noop := func() {}
	if strings.TrimSpace(cfg.Postgres.DSN) == "" {
		logger.Info("postgres dsn not set")
		return nil, noop, nil
	}
	ctx, cancel := context.WithTimeout(ctx, postgresConnectTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Error("postgres unavailable", "error", err)
		return nil, noop, nil
	}
	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, noop, err
		}
	}
	logger.Info("postgres pool ready")
	return pool, pool.Close, nil
}

// CacheStore picks the flow cache for cache.backend. A nil store means the
// backend is down and storage.required forbids the memory fallback.
func CacheStore(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (flowgen.CacheStore, func()) {
	noop := func() {}
	switch cfg.Cache.Backend {
	case config.CachePostgres:
		if pool != nil {
			logger.Info("flow cache backend", "backend", config.CachePostgres)
			return flowcache.NewPostgresStore(pool), noop
		}
		return cacheFallback(cfg, logger, "postgres pool unavailable"), noop
	case config.CacheValkey:
		client, err := newValkeyClient(cfg)
		if err != nil {
			return cacheFallback(cfg, logger, err.Error()), noop
		}
		logger.Info("flow cache backend", "backend", config.CacheValkey, "addr", cfg.Valkey.Addr)
		return flowcache.NewValkeyStore(client, cfg.Valkey.Prefix, cfg.Flow.CacheTTL), client.Close
	default:
		return flowcache.NewMemoryStore(), noop
	}
}

func cacheFallback(cfg *config.Config, logger *slog.Logger, reason string) flowgen.CacheStore {
	if cfg.Storage.Required {
		logger.Error("flow cache unavailable and storage is required", "backend", cfg.Cache.Backend, "reason", reason)
		return nil
	}
	logger.Warn("flow cache unavailable, falling back to memory store", "backend", cfg.Cache.Backend, "reason", reason)
	return flowcache.NewMemoryStore()
}

// UsageLog writes to Postgres when a pool is available.
func UsageLog(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) flowgen.UsageLog {
	if pool != nil {
		return usagelog.NewPostgresLog(pool)
	}
	if strings.TrimSpace(cfg.Postgres.DSN) != "" && cfg.Storage.Required {
		logger.Error("usage log unavailable and storage is required")
		return nil
	}
	logger.Info("usage log kept in memory")
	return usagelog.NewMemoryLog()
}

// RawArchive returns nil when archiving is disabled or the client cannot be built.
func RawArchive(cfg *config.Config, logger *slog.Logger) flowgen.RawArchive {
	if !cfg.Archive.Enabled {
		return nil
	}
	a := cfg.Archive
	archive, err := rawarchive.NewObjectArchive(a.Endpoint, a.AccessKey, a.SecretKey, a.Bucket, a.Region, logger)
	if err != nil {
		logger.Error("raw reply archive disabled", "error", err)
		return nil
	}
	logger.Info("raw reply archive enabled", "bucket", a.Bucket)
	return archive
}

func newValkeyClient(cfg *config.Config) (valkey.Client, error) {
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), valkeyPingTimeout)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

// tokenizerWarmTimeout bounds the startup wait for BPE ranks; past it the
// estimator keeps loading in the background and counts approximately.
const tokenizerWarmTimeout = 5 * time.Second

// TokenEstimator builds the BPE estimator and gives it a bounded head start.
func TokenEstimator(logger *slog.Logger) flowgen.TokenEstimator {
	est := tokenizer.NewEstimator("", logger)
	if !est.Warm(tokenizerWarmTimeout) {
		logger.Warn("tokenizer still loading, counting approximately until ready", "timeout", tokenizerWarmTimeout)
	}
	return est
}
