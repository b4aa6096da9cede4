package flowgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/ai-flowgen/pkg/errors"
	"github.com/yanqian/ai-flowgen/pkg/logger"
	"github.com/yanqian/ai-flowgen/pkg/metrics"
)

// Service generates flows from user requests.
type Service interface {
	Generate(ctx context.Context, userID string, req GenerationRequest) (Response, error)
}

type service struct {
	cfg      Config
	provider Provider
	cache    CacheStore
	usage    UsageLog
	tokens   TokenEstimator
	archive  RawArchive
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the flow generation pipeline. A nil cache or usage log
// marks storage as misconfigured; tokens and archive are optional.
func NewService(cfg Config, provider Provider, cache CacheStore, usage UsageLog, tokens TokenEstimator, archive RawArchive, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		usage:    usage,
		tokens:   tokens,
		archive:  archive,
		logger:   logger.With("component", "flowgen.service"),
		now:      time.Now,
	}
}

// run accumulates the usage record for one request.
type run struct {
	started time.Time
	record  UsageRecord
}

func (s *service) Generate(ctx context.Context, userID string, req GenerationRequest) (Response, error) {
	if err := validateRequest(req); err != nil {
		return Response{}, err
	}

	// callers cannot abort a run midway; the provider timeout is the only deadline
	ctx = context.WithoutCancel(ctx)
	fp := req.Fingerprint()
	r := &run{
		started: s.now(),
		record: UsageRecord{
			UserID:      userID,
			Fingerprint: fp,
			Prompt:      req.Description,
		},
	}
	log := s.logger.With("input_hash", string(fp), "user_id", userID)
	if rid := logger.RequestID(ctx); rid != "" {
		log = log.With("request_id", rid)
	}

	if s.cache == nil || s.usage == nil || s.provider == nil {
		s.finish(ctx, r, StatusStorageMisconfigured)
		return Response{}, apperrors.Wrap(CodeStorageMisconfigured, "flow generation storage is not configured", nil)
	}

	raw, cached := s.lookupCache(ctx, fp)
	var rawText string
	if cached {
		log.Info("flow cache hit")
	} else {
		prompt := BuildPrompt(req, s.promptConfig())
		log.Info("generating flow",
			"category", prompt.Category,
			"days", prompt.DayCount,
			"max_tokens", prompt.OutputBudget,
			"prompt_version", SystemPromptVersion,
		)

		reply, err := s.invoke(ctx, prompt)
		if err != nil {
			return Response{}, s.failProvider(ctx, r, err)
		}
		r.record.Model = reply.Model
		r.record.TokensIn = reply.TokensIn
		r.record.TokensOut = reply.TokensOut
		rawText = reply.Text

		if reply.Truncated() {
			log.Warn("provider reply truncated", "tokens_out", reply.TokensOut, "max_tokens", prompt.OutputBudget)
			s.finish(ctx, r, StatusTruncated)
			return Response{}, apperrors.Wrap(CodeTruncated,
				fmt.Sprintf("Response was too long for %d days. Try a shorter date range.", prompt.DayCount), nil)
		}

		log.Debug("provider reply", "content", preview(reply.Text, 5000))
		raw, err = Recover(reply.Text, reply.FinishReason)
		if err != nil {
			s.saveRaw(ctx, fp, StatusParseError, reply.Text)
			s.finish(ctx, r, StatusParseError)
			return Response{}, apperrors.Wrap(CodeParseError,
				fmt.Sprintf("Model did not return valid JSON. Response length: %d chars, tokens: %d/%d.", len(reply.Text), reply.TokensOut, prompt.OutputBudget), err)
		}
		if len(raw.Notes) < prompt.DayCount {
			log.Warn("model returned fewer notes than days", "notes", len(raw.Notes), "days", prompt.DayCount)
		}
		r.record.CostUSD = EstimateCost(reply.Model, reply.TokensIn, reply.TokensOut, s.pricing(), s.defaultPrice())
		if reply.Placeholder {
			log.Warn("provider credential missing, returning placeholder flow")
		}
	}

	flow := Transform(raw)
	if err := Validate(flow); err != nil {
		if !cached {
			s.saveRaw(ctx, fp, StatusValidationError, rawText)
		}
		s.finish(ctx, r, StatusValidationError)
		return Response{}, apperrors.Wrap(CodeValidationError, err.Error(), err)
	}
	flow.FlowColor = FormatColor(CoerceColor(req.FlowColor))

	status := StatusSuccess
	if cached {
		status = StatusCacheHit
	}
	s.finish(ctx, r, status)
	if !cached {
		s.writeCache(ctx, fp, req.Description, raw)
	}

	return Response{
		Success:         true,
		FlowName:        flow.FlowName,
		FlowColor:       flow.FlowColor,
		OverviewTitle:   flow.OverviewTitle,
		OverviewSummary: flow.OverviewSummary,
		Notes:           flow.Notes,
		AIMetadata: AIMetadata{
			Generated: true,
			Model:     r.record.Model,
			Prompt:    truncateRunes(req.Description, 200),
		},
		ModelUsed: r.record.Model,
		Cached:    cached,
	}, nil
}

func validateRequest(req GenerationRequest) error {
	switch {
	case strings.TrimSpace(req.Description) == "":
		return apperrors.Wrap(CodeInvalidRequest, "description is required", nil)
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return apperrors.Wrap(CodeInvalidRequest, "start_date and end_date are required", nil)
	case req.EndDate.Before(req.StartDate):
		return apperrors.Wrap(CodeInvalidRequest, "end_date must not be before start_date", nil)
	}
	return nil
}

func (s *service) invoke(ctx context.Context, prompt Prompt) (ProviderReply, error) {
	started := s.now()
	reply, err := s.provider.Invoke(ctx, ProviderRequest{
		System:      prompt.System,
		User:        prompt.User,
		Temperature: s.cfg.Temperature,
		MaxTokens:   prompt.OutputBudget,
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveProviderCall(outcome, s.now().Sub(started))
	if err != nil {
		return ProviderReply{}, err
	}
	if !reply.Placeholder && reply.TokensIn == 0 && reply.TokensOut == 0 && s.tokens != nil {
		reply.TokensIn = s.tokens.Count(prompt.System) + s.tokens.Count(prompt.User)
		reply.TokensOut = s.tokens.Count(reply.Text)
	}
	return reply, nil
}

func (s *service) failProvider(ctx context.Context, r *run, err error) error {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		s.finish(ctx, r, StatusProviderError)
		return apperrors.Wrap(CodeProviderError, "AI provider request failed", err)
	}
	if providerErr.Timeout {
		s.finish(ctx, r, StatusProviderTimeout)
		return apperrors.Wrap(CodeProviderTimeout, "AI generation timed out", err)
	}
	s.finish(ctx, r, StatusProviderError)
	return apperrors.Wrap(CodeProviderError, providerFailureMessage(providerErr), err)
}

const providerMessageLimit = 300

// providerFailureMessage folds the upstream status and an excerpt of its body
// into the client-facing message.
func providerFailureMessage(e *ProviderError) string {
	detail := preview(strings.TrimSpace(e.Message), providerMessageLimit)
	switch {
	case e.Status > 0 && detail != "":
		return fmt.Sprintf("AI provider request failed: HTTP %d: %s", e.Status, detail)
	case e.Status > 0:
		return fmt.Sprintf("AI provider request failed: HTTP %d", e.Status)
	case detail != "":
		return "AI provider request failed: " + detail
	default:
		return "AI provider request failed"
	}
}

// finish appends the usage record and publishes metrics. Log failures never
// change the outcome of the request.
func (s *service) finish(ctx context.Context, r *run, status UsageStatus) {
	r.record.Status = status
	r.record.CreatedAt = s.now()
	r.record.Duration = r.record.CreatedAt.Sub(r.started)

	usage := metrics.TokenUsage{
		PromptTokens:     r.record.TokensIn,
		CompletionTokens: r.record.TokensOut,
	}
	metrics.ObserveGeneration(string(status), usage, r.record.CostUSD)
	s.logger.Info("flow generation finished",
		"input_hash", r.record.Fingerprint,
		"status", status,
		"tokens", usage.Total(),
		"cost_usd", r.record.CostUSD,
		"duration_ms", r.record.Duration.Milliseconds(),
	)

	if s.usage == nil {
		return
	}
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.usage.Append(storeCtx, r.record); err != nil {
		s.logger.Warn("usage log write failed", "input_hash", r.record.Fingerprint, "status", status, "error", err)
	}
}

func (s *service) saveRaw(ctx context.Context, fp Fingerprint, status UsageStatus, text string) {
	if s.archive == nil {
		return
	}
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.archive.Save(storeCtx, fp, status, text); err != nil {
		s.logger.Warn("raw reply archive failed", "input_hash", fp, "error", err)
	}
}

// storeContext bounds a best-effort side-store call. The pipeline context has
// no deadline of its own, so without this a stalled store would hold the request.
func (s *service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *service) promptConfig() PromptConfig {
	cfg := PromptConfig{
		MinOutputTokens: s.cfg.MinOutputTokens,
		TokensPerDay:    s.cfg.TokensPerDay,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	}
	if cfg.MinOutputTokens <= 0 {
		cfg.MinOutputTokens = DefaultMinOutputTokens
	}
	if cfg.TokensPerDay <= 0 {
		cfg.TokensPerDay = DefaultTokensPerDay
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	return cfg
}

func (s *service) pricing() map[string]Price {
	if len(s.cfg.Pricing) == 0 {
		return DefaultPricing
	}
	return s.cfg.Pricing
}

func (s *service) defaultPrice() Price {
	if s.cfg.DefaultPrice == (Price{}) {
		return FallbackPrice
	}
	return s.cfg.DefaultPrice
}

func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "...[truncated]"
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
