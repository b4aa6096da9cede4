package bootstrap

import (
	"strings"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/config"
)

// FlowConfig converts loaded settings into the pipeline configuration.
// Pricing keys are lowercased to match model-name lookups.
func FlowConfig(cfg *config.Config) flowgen.Config {
	var pricing map[string]flowgen.Price
	if len(cfg.LLM.Pricing) > 0 {
		pricing = make(map[string]flowgen.Price, len(cfg.LLM.Pricing))
		for tier, price := range cfg.LLM.Pricing {
			pricing[strings.ToLower(tier)] = flowgen.Price{
				InputPerMillion:  price.InputPerMillion,
				OutputPerMillion: price.OutputPerMillion,
			}
		}
	}
	return flowgen.Config{
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		MinOutputTokens: cfg.Flow.MinOutputTokens,
		TokensPerDay:    cfg.Flow.TokensPerDay,
		CacheTTL:        cfg.Flow.CacheTTL,
		StoreTimeout:    cfg.Flow.StoreTimeout,
		Pricing:         pricing,
	}
}
