package flowgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateCost(t *testing.T) {
	require.InDelta(t, 0.00069, EstimateCost("gpt-4o-mini-2024-07-18", 1000, 900, DefaultPricing, FallbackPrice), 1e-9)
	require.InDelta(t, 0.0115, EstimateCost("gpt-4o", 1000, 900, DefaultPricing, FallbackPrice), 1e-9)
	require.InDelta(t, 0.0044, EstimateCost("claude-3-5-haiku-latest", 1000, 900, DefaultPricing, FallbackPrice), 1e-9)
	require.InDelta(t, 0.0165, EstimateCost("unknown-model", 1000, 900, DefaultPricing, FallbackPrice), 1e-9)
}

func TestEstimateCostNeverNegative(t *testing.T) {
	require.Equal(t, 0.0, EstimateCost("gpt-4o", -10, -10, DefaultPricing, FallbackPrice))
	require.Equal(t, 0.0, EstimateCost("placeholder", 0, 0, DefaultPricing, FallbackPrice))
}

func TestEstimateCostCustomPricing(t *testing.T) {
	pricing := map[string]Price{"my-model": {InputPerMillion: 1, OutputPerMillion: 2}}
	require.InDelta(t, 0.000003, EstimateCost("my-model-v2", 1, 1, pricing, FallbackPrice), 1e-12)
}
