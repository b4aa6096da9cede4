package flowcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/postgres"
)

const cacheTable = "flow_generation_cache"

// PostgresStore persists cached flows in flow_generation_cache.
type PostgresStore struct {
	q postgres.Querier
}

// NewPostgresStore constructs the store.
func NewPostgresStore(q postgres.Querier) *PostgresStore {
	return &PostgresStore{q: q}
}

// Get returns the newest entry created at or after notBefore.
func (s *PostgresStore) Get(ctx context.Context, fp flowgen.Fingerprint, notBefore time.Time) (flowgen.CacheEntry, bool, error) {
	query, args, err := postgres.Builder().
		Select("input_hash", "user_prompt", "response_json", "created_at").
		From(cacheTable).
		Where(sq.Eq{"input_hash": string(fp)}).
		Where(sq.GtOrEq{"created_at": notBefore}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return flowgen.CacheEntry{}, false, fmt.Errorf("build cache select: %w", err)
	}

	var (
		entry   flowgen.CacheEntry
		hash    string
		payload []byte
	)
	err = s.q.QueryRow(ctx, query, args...).Scan(&hash, &entry.Prompt, &payload, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return flowgen.CacheEntry{}, false, nil
	}
	if err != nil {
		return flowgen.CacheEntry{}, false, err
	}
	if err := json.Unmarshal(payload, &entry.Raw); err != nil {
		return flowgen.CacheEntry{}, false, fmt.Errorf("decode cached flow: %w", err)
	}
	entry.Fingerprint = flowgen.Fingerprint(hash)
	entry.CreatedAt = entry.CreatedAt.UTC()
	return entry, true, nil
}

// Put upserts the entry so the freshest response wins.
func (s *PostgresStore) Put(ctx context.Context, entry flowgen.CacheEntry) error {
	payload, err := json.Marshal(entry.Raw)
	if err != nil {
		return fmt.Errorf("encode cached flow: %w", err)
	}
	query, args, err := postgres.Builder().
		Insert(cacheTable).
		Columns("input_hash", "user_prompt", "response_json", "created_at").
		Values(string(entry.Fingerprint), entry.Prompt, payload, entry.CreatedAt).
		Suffix("ON CONFLICT (input_hash) DO UPDATE SET user_prompt = EXCLUDED.user_prompt, response_json = EXCLUDED.response_json, created_at = EXCLUDED.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build cache insert: %w", err)
	}
	_, err = s.q.Exec(ctx, query, args...)
	return err
}

var _ flowgen.CacheStore = (*PostgresStore)(nil)
