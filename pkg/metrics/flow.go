package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowgen_generations_total",
			Help: "Flow generation requests by outcome status.",
		},
		[]string{"status"},
	)

	tokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowgen_tokens_total",
			Help: "LLM tokens consumed by flow generation.",
		},
		[]string{"direction"},
	)

	cost = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flowgen_cost_usd_total",
			Help: "Estimated provider spend in USD.",
		},
	)

	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowgen_provider_duration_seconds",
			Help:    "Duration of provider calls in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(generations, tokens, cost, providerLatency)
}

// ObserveGeneration records the outcome of one pipeline run.
func ObserveGeneration(status string, usage TokenUsage, costUSD float64) {
	generations.WithLabelValues(status).Inc()
	if !usage.IsZero() {
		tokens.WithLabelValues("in").Add(float64(usage.PromptTokens))
		tokens.WithLabelValues("out").Add(float64(usage.CompletionTokens))
	}
	if costUSD > 0 {
		cost.Add(costUSD)
	}
}

// ObserveProviderCall records how long a provider call took.
func ObserveProviderCall(outcome string, d time.Duration) {
	providerLatency.WithLabelValues(outcome).Observe(d.Seconds())
}
