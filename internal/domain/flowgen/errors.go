package flowgen

import "fmt"

// Error codes surfaced to callers.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeProviderError        = "PROVIDER_ERROR"
	CodeProviderTimeout      = "PROVIDER_TIMEOUT"
	CodeTruncated            = "LLM_TRUNCATED"
	CodeParseError           = "LLM_PARSE_ERROR"
	CodeValidationError      = "LLM_VALIDATION_ERROR"
	CodeStorageMisconfigured = "STORAGE_MISCONFIGURED"
)

// ProviderError describes a failed provider call.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	Timeout  bool
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timed out", e.Provider)
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: status=%d %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// ParseError is returned when no JSON object can be recovered from provider text.
type ParseError struct {
	Length       int
	FinishReason string
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model output (length=%d finish_reason=%q): %v", e.Length, e.FinishReason, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError names the first structural rule a flow violates.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}
