package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ai-flowgen/internal/bootstrap"
	"github.com/yanqian/ai-flowgen/internal/domain/auth"
	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/config"
	"github.com/yanqian/ai-flowgen/internal/infra/llm"
	"github.com/yanqian/ai-flowgen/pkg/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Log.Level, cfg.Log.Format)
}

func provideFlowConfig(cfg *config.Config) flowgen.Config {
	return bootstrap.FlowConfig(cfg)
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{Secret: cfg.Auth.JWTSecret}
}

func provideProvider(cfg *config.Config, logger *slog.Logger) (flowgen.Provider, error) {
	return llm.NewProvider(cfg.LLM, logger)
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	return bootstrap.PostgresPool(context.Background(), cfg, logger)
}

func provideCacheStore(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (flowgen.CacheStore, func()) {
	return bootstrap.CacheStore(cfg, pool, logger)
}

func provideUsageLog(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) flowgen.UsageLog {
	return bootstrap.UsageLog(cfg, pool, logger)
}

func provideTokenEstimator(logger *slog.Logger) flowgen.TokenEstimator {
	return bootstrap.TokenEstimator(logger)
}

func provideRawArchive(cfg *config.Config, logger *slog.Logger) flowgen.RawArchive {
	return bootstrap.RawArchive(cfg, logger)
}
