package claude

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

const (
	providerName   = "anthropic"
	defaultModel   = "claude-3-5-haiku-latest"
	defaultTimeout = 45 * time.Second
	maxErrorBody   = 4 << 10
)

// Provider calls the Anthropic Messages API.
type Provider struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

// NewProvider builds a client with SDK retries disabled; a failed call is
// reported once.
func NewProvider(apiKey, baseURL, model string, timeout time.Duration) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		client:  anthropic.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}
}

// Invoke sends the prompt as one user turn with a system block.
func (p *Provider) Invoke(ctx context.Context, req flowgen.ProviderRequest) (flowgen.ProviderReply, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(req.MaxTokens),
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.User))},
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return flowgen.ProviderReply{}, wrapError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	reply := flowgen.ProviderReply{
		Model:        string(msg.Model),
		Text:         text.String(),
		TokensIn:     int(msg.Usage.InputTokens),
		TokensOut:    int(msg.Usage.OutputTokens),
		FinishReason: string(msg.StopReason),
	}
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		reply.FinishReason = flowgen.FinishReasonLength
	}
	if reply.Model == "" {
		reply.Model = p.model
	}
	return reply, nil
}

func wrapError(err error) error {
	out := &flowgen.ProviderError{Provider: providerName, Message: excerpt(err.Error())}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		out.Status = apiErr.StatusCode
		return out
	}
	if errors.Is(err, context.DeadlineExceeded) {
		out.Timeout = true
		return out
	}
	var netErr net.Error
	out.Timeout = errors.As(err, &netErr) && netErr.Timeout()
	return out
}

func excerpt(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody]
}

var _ flowgen.Provider = (*Provider)(nil)
