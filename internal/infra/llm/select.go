// Package llm selects the flow generation provider from configuration.
package llm

import (
	"log/slog"
	"strings"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/config"
	"github.com/yanqian/ai-flowgen/internal/infra/llm/chatgpt"
	"github.com/yanqian/ai-flowgen/internal/infra/llm/claude"
	"github.com/yanqian/ai-flowgen/internal/infra/llm/placeholder"
)

// NewProvider builds the configured backend. Without a credential every
// request gets the placeholder draft instead of failing.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) (flowgen.Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("llm api key not set, using placeholder provider", "provider", cfg.Provider)
		return placeholder.New(), nil
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		logger.Info("anthropic provider enabled", "model", cfg.Model)
		return claude.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	default:
		client, err := chatgpt.NewClient(cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("openai provider enabled", "model", cfg.Model)
		return chatgpt.NewProvider(client, cfg.Model, cfg.Timeout), nil
	}
}
