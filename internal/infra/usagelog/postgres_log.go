package usagelog

import (
	"context"
	"fmt"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/postgres"
)

// PostgresLog appends usage records to flow_generation_logs.
type PostgresLog struct {
	q postgres.Querier
}

// NewPostgresLog constructs the log.
func NewPostgresLog(q postgres.Querier) *PostgresLog {
	return &PostgresLog{q: q}
}

// Append inserts one row. flow_id stays NULL until a flow is persisted.
func (l *PostgresLog) Append(ctx context.Context, record flowgen.UsageRecord) error {
	query, args, err := postgres.Builder().
		Insert("flow_generation_logs").
		Columns(
			"user_id",
			"flow_id",
			"input_hash",
			"user_prompt_raw",
			"model_used",
			"tokens_in",
			"tokens_out",
			"cost_usd",
			"duration_ms",
			"llm_status",
			"created_at",
		).
		Values(
			record.UserID,
			nil,
			string(record.Fingerprint),
			record.Prompt,
			record.Model,
			record.TokensIn,
			record.TokensOut,
			record.CostUSD,
			record.Duration.Milliseconds(),
			string(record.Status),
			record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build usage insert: %w", err)
	}
	if _, err := l.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

var _ flowgen.UsageLog = (*PostgresLog)(nil)
