// Package placeholder stands in for a real provider when no API key is configured.
package placeholder

import (
	"context"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

// Model is reported as the model id of every placeholder reply.
const Model = "placeholder"

const draftFlow = `{"flowName":"AI Draft Flow","notes":[{"day_index":0,"title":"Placeholder Block","details":"No API key configured in environment.","allDay":true}]}`

// Provider returns a fixed, clearly labeled draft flow without network access.
type Provider struct{}

// New returns a placeholder provider.
func New() Provider {
	return Provider{}
}

func (Provider) Invoke(context.Context, flowgen.ProviderRequest) (flowgen.ProviderReply, error) {
	return flowgen.ProviderReply{
		Model:        Model,
		Text:         draftFlow,
		FinishReason: "stop",
		Placeholder:  true,
	}, nil
}

var _ flowgen.Provider = Provider{}
