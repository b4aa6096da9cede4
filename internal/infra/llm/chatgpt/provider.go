package chatgpt

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

const (
	providerName   = "openai"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 45 * time.Second
)

// Provider adapts the ChatGPT client to flowgen.Provider.
type Provider struct {
	client  *Client
	model   string
	timeout time.Duration
}

// NewProvider constructs the adapter.
func NewProvider(client *Client, model string, timeout time.Duration) *Provider {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{client: client, model: model, timeout: timeout}
}

// Invoke sends one chat completion. Caller cancellation is ignored; only the
// provider timeout ends the call early.
func (p *Provider) Invoke(ctx context.Context, req flowgen.ProviderRequest) (flowgen.ProviderReply, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model: p.model,
		Messages: []Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return flowgen.ProviderReply{}, p.wrapError(err)
	}

	reply := flowgen.ProviderReply{
		Model:     resp.Model,
		TokensIn:  resp.Usage.PromptTokens,
		TokensOut: resp.Usage.CompletionTokens,
	}
	if reply.Model == "" {
		reply.Model = p.model
	}
	if len(resp.Choices) > 0 {
		reply.Text = resp.Choices[0].Message.Content
		reply.FinishReason = resp.Choices[0].FinishReason
	}
	return reply, nil
}

func (p *Provider) wrapError(err error) error {
	out := &flowgen.ProviderError{Provider: providerName, Message: err.Error()}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		out.Status = statusErr.StatusCode
		out.Message = statusErr.Body
		return out
	}
	out.Timeout = isTimeout(err)
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ flowgen.Provider = (*Provider)(nil)
