package llm

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ai-flowgen/internal/infra/config"
	"github.com/yanqian/ai-flowgen/internal/infra/llm/chatgpt"
	"github.com/yanqian/ai-flowgen/internal/infra/llm/claude"
	"github.com/yanqian/ai-flowgen/internal/infra/llm/placeholder"
)

func TestNewProviderSelectsBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p, err := NewProvider(config.LLMConfig{Provider: config.ProviderOpenAI}, logger)
	require.NoError(t, err)
	require.IsType(t, placeholder.Provider{}, p)

	p, err = NewProvider(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "sk-test", Timeout: time.Second}, logger)
	require.NoError(t, err)
	require.IsType(t, &chatgpt.Provider{}, p)

	p, err = NewProvider(config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "sk-ant", Timeout: time.Second}, logger)
	require.NoError(t, err)
	require.IsType(t, &claude.Provider{}, p)
}
