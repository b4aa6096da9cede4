//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ai-flowgen/internal/bootstrap"
	"github.com/yanqian/ai-flowgen/internal/domain/auth"
	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/config"
	httpiface "github.com/yanqian/ai-flowgen/internal/interface/http"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideFlowConfig,
		provideAuthConfig,
		provideProvider,
		providePostgresPool,
		provideCacheStore,
		provideUsageLog,
		provideTokenEstimator,
		provideRawArchive,
		flowgen.NewService,
		auth.NewResolver,
		httpiface.NewFlowHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
