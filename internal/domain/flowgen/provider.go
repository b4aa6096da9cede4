package flowgen

import "context"

// Provider performs a single text-generation call.
type Provider interface {
	Invoke(ctx context.Context, req ProviderRequest) (ProviderReply, error)
}

// TokenEstimator approximates token counts when a provider omits usage data.
type TokenEstimator interface {
	Count(text string) int
}

// RawArchive keeps provider output that could not be turned into a flow.
type RawArchive interface {
	Save(ctx context.Context, fp Fingerprint, status UsageStatus, text string) error
}
