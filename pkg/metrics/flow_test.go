package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	baseStatus := testutil.ToFloat64(generations.WithLabelValues("success"))
	baseIn := testutil.ToFloat64(tokens.WithLabelValues("in"))
	baseOut := testutil.ToFloat64(tokens.WithLabelValues("out"))
	baseCost := testutil.ToFloat64(cost)

	ObserveGeneration("success", TokenUsage{PromptTokens: 120, CompletionTokens: 800}, 0.0012)

	require.Equal(t, baseStatus+1, testutil.ToFloat64(generations.WithLabelValues("success")))
	require.Equal(t, baseIn+120, testutil.ToFloat64(tokens.WithLabelValues("in")))
	require.Equal(t, baseOut+800, testutil.ToFloat64(tokens.WithLabelValues("out")))
	require.InDelta(t, baseCost+0.0012, testutil.ToFloat64(cost), 1e-9)
}

func TestObserveGenerationCacheHitAddsNoTokens(t *testing.T) {
	baseIn := testutil.ToFloat64(tokens.WithLabelValues("in"))

	ObserveGeneration("cache_hit", TokenUsage{}, 0)

	require.Equal(t, baseIn, testutil.ToFloat64(tokens.WithLabelValues("in")))
}

func TestObserveProviderCall(t *testing.T) {
	before := testutil.CollectAndCount(providerLatency)
	ObserveProviderCall("ok_test", 1500*time.Millisecond)
	require.Equal(t, before+1, testutil.CollectAndCount(providerLatency))
}

func TestTokenUsage(t *testing.T) {
	require.True(t, TokenUsage{}.IsZero())
	usage := TokenUsage{PromptTokens: 3, CompletionTokens: 4}
	require.False(t, usage.IsZero())
	require.Equal(t, 7, usage.Total())
}
