package flowgen

import (
	"math"
	"strings"
)

// DefaultPricing holds list prices per million tokens keyed by model family.
// More specific keys must be matched first, see priceFor.
var DefaultPricing = map[string]Price{
	"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"haiku":       {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"sonnet":      {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"opus":        {InputPerMillion: 15.00, OutputPerMillion: 75.00},
}

// FallbackPrice applies to models that match no pricing key.
var FallbackPrice = Price{InputPerMillion: 3.00, OutputPerMillion: 15.00}

// EstimateCost returns the USD cost of a call rounded to micro-dollars.
func EstimateCost(model string, tokensIn, tokensOut int, pricing map[string]Price, fallback Price) float64 {
	if tokensIn < 0 {
		tokensIn = 0
	}
	if tokensOut < 0 {
		tokensOut = 0
	}
	price := priceFor(model, pricing, fallback)
	cost := (float64(tokensIn)*price.InputPerMillion + float64(tokensOut)*price.OutputPerMillion) / 1_000_000
	return math.Round(cost*1_000_000) / 1_000_000
}

// priceFor matches the longest pricing key contained in the model id.
func priceFor(model string, pricing map[string]Price, fallback Price) Price {
	model = strings.ToLower(model)
	best := ""
	for key := range pricing {
		if strings.Contains(model, strings.ToLower(key)) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return fallback
	}
	return pricing[best]
}
