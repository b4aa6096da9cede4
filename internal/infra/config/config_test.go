package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 7*24*time.Hour, cfg.Flow.CacheTTL)
	require.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 0.7, cfg.LLM.Temperature)
	require.Equal(t, 3*time.Second, cfg.Flow.StoreTimeout)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(cfg *Config){
		"unknown provider":           func(cfg *Config) { cfg.LLM.Provider = "cohere" },
		"write timeout below llm":    func(cfg *Config) { cfg.HTTP.WriteTimeout = 30 * time.Second },
		"ceiling below floor":        func(cfg *Config) { cfg.LLM.MaxOutputTokens = 1000 },
		"valkey without addr":        func(cfg *Config) { cfg.Cache.Backend = CacheValkey },
		"postgres without dsn":       func(cfg *Config) { cfg.Cache.Backend = CachePostgres },
		"unknown cache backend":      func(cfg *Config) { cfg.Cache.Backend = "disk" },
		"archive without bucket":     func(cfg *Config) { cfg.Archive = ArchiveConfig{Enabled: true, Endpoint: "r2"} },
		"negative price":             func(cfg *Config) { cfg.LLM.Pricing = map[string]PriceConfig{"gpt-4o": {InputPerMillion: -1}} },
		"rate limit without burst":   func(cfg *Config) { cfg.HTTP.RateLimit.Burst = 0 },
		"temperature out of range":   func(cfg *Config) { cfg.LLM.Temperature = 3 },
		"non-positive cache window":  func(cfg *Config) { cfg.Flow.CacheTTL = 0 },
		"non-positive store timeout": func(cfg *Config) { cfg.Flow.StoreTimeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: anthropic
  model: claude-3-5-haiku-latest
  pricing:
    haiku:
      inputPerMillion: 1
      outputPerMillion: 5
flow:
  cacheTtl: 24h
cache:
  backend: valkey
valkey:
  addr: localhost:6379
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("FLOW_STORE_TIMEOUT", "750ms")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	require.Equal(t, "sk-ant", cfg.LLM.APIKey)
	require.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 24*time.Hour, cfg.Flow.CacheTTL)
	require.Equal(t, 750*time.Millisecond, cfg.Flow.StoreTimeout)
	require.Equal(t, 5.0, cfg.LLM.Pricing["haiku"].OutputPerMillion)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 3500, cfg.Flow.MinOutputTokens)
}
