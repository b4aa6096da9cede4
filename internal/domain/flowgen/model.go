package flowgen

import (
	"encoding/json"
	"time"
)

// GenerationRequest captures the validated user input for a single generation.
type GenerationRequest struct {
	Description string
	StartDate   time.Time
	EndDate     time.Time
	FlowName    string
	FlowColor   json.RawMessage
	Timezone    string
	SourceText  string
}

// Fingerprint identifies a request by its content.
type Fingerprint string

// RawOverview is the optional overview block emitted by the model.
type RawOverview struct {
	Title   *string `json:"title,omitempty"`
	Summary *string `json:"summary,omitempty"`
}

// RawNote is a single day entry as emitted by the model. Every field may be missing.
type RawNote struct {
	DayIndex *float64 `json:"day_index,omitempty"`
	Title    *string  `json:"title,omitempty"`
	Details  *string  `json:"details,omitempty"`
	AllDay   *bool    `json:"allDay,omitempty"`
	StartsAt *string  `json:"startsAt,omitempty"`
	EndsAt   *string  `json:"endsAt,omitempty"`
	Location *string  `json:"location,omitempty"`
	Chips    []int    `json:"chips,omitempty"`
}

// RawModelFlow is the untrusted structure recovered from provider text.
type RawModelFlow struct {
	FlowName *string      `json:"flowName,omitempty"`
	Overview *RawOverview `json:"overview,omitempty"`
	Notes    []RawNote    `json:"notes"`
}

// CanonicalNote is the stable per-day shape returned to clients.
type CanonicalNote struct {
	DayIndex  int     `json:"day_index"`
	Title     string  `json:"title"`
	Details   string  `json:"details"`
	AllDay    bool    `json:"all_day"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// CanonicalFlow is the transformed, validated flow.
type CanonicalFlow struct {
	FlowName        string
	FlowColor       string
	OverviewTitle   string
	OverviewSummary string
	Notes           []CanonicalNote
}

// CacheEntry is a persisted raw flow keyed by fingerprint.
type CacheEntry struct {
	Fingerprint Fingerprint
	Prompt      string
	Raw         RawModelFlow
	CreatedAt   time.Time
}

// UsageStatus labels the outcome recorded in the usage log.
type UsageStatus string

const (
	StatusSuccess              UsageStatus = "success"
	StatusCacheHit             UsageStatus = "cache_hit"
	StatusProviderError        UsageStatus = "provider_error"
	StatusProviderTimeout      UsageStatus = "provider_timeout"
	StatusTruncated            UsageStatus = "truncated"
	StatusParseError           UsageStatus = "parse_error"
	StatusValidationError      UsageStatus = "validation_error"
	StatusStorageMisconfigured UsageStatus = "storage_misconfigured"
)

// UsageRecord is appended to the usage log once per pipeline run.
type UsageRecord struct {
	UserID      string
	Fingerprint Fingerprint
	Prompt      string
	Model       string
	TokensIn    int
	TokensOut   int
	CostUSD     float64
	Duration    time.Duration
	Status      UsageStatus
	CreatedAt   time.Time
}

// AIMetadata describes how the flow was produced.
type AIMetadata struct {
	Generated bool   `json:"generated"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
}

// Response is returned to API consumers on success.
type Response struct {
	Success         bool            `json:"success"`
	FlowName        string          `json:"flow_name"`
	FlowColor       string          `json:"flow_color"`
	OverviewTitle   string          `json:"overview_title"`
	OverviewSummary string          `json:"overview_summary"`
	Notes           []CanonicalNote `json:"notes"`
	AIMetadata      AIMetadata      `json:"ai_metadata"`
	ModelUsed       string          `json:"model_used"`
	Cached          bool            `json:"cached"`
}

// ProviderRequest is the normalized input for a provider call.
type ProviderRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ProviderReply is the normalized provider output regardless of envelope.
type ProviderReply struct {
	Model        string
	Text         string
	TokensIn     int
	TokensOut    int
	FinishReason string
	Placeholder  bool
}

// FinishReasonLength marks a reply cut off by the output budget.
const FinishReasonLength = "length"

// Truncated reports whether the reply hit the output budget.
func (r ProviderReply) Truncated() bool {
	return r.FinishReason == FinishReasonLength
}

// Price is the per-million-token rate for a model tier in USD.
type Price struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Config wires runtime settings for the flow generation pipeline.
type Config struct {
	Temperature     float64
	MaxOutputTokens int
	MinOutputTokens int
	TokensPerDay    int
	CacheTTL        time.Duration
	StoreTimeout    time.Duration
	Pricing         map[string]Price
	DefaultPrice    Price
}
