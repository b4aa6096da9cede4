package flowcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

type valkeyPayload struct {
	Prompt    string               `json:"prompt"`
	Raw       flowgen.RawModelFlow `json:"response"`
	CreatedAt time.Time            `json:"created_at"`
}

// ValkeyStore caches flows in a Valkey-compatible database. Keys expire on
// their own after the TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "flowgen"
	}
	if ttl <= 0 {
		ttl = flowgen.DefaultCacheTTL
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Get(ctx context.Context, fp flowgen.Fingerprint, notBefore time.Time) (flowgen.CacheEntry, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(fp)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return flowgen.CacheEntry{}, false, nil
		}
		return flowgen.CacheEntry{}, false, err
	}
	var record valkeyPayload
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return flowgen.CacheEntry{}, false, err
	}
	if record.CreatedAt.Before(notBefore) {
		return flowgen.CacheEntry{}, false, nil
	}
	return flowgen.CacheEntry{
		Fingerprint: fp,
		Prompt:      record.Prompt,
		Raw:         record.Raw,
		CreatedAt:   record.CreatedAt,
	}, true, nil
}

func (s *ValkeyStore) Put(ctx context.Context, entry flowgen.CacheEntry) error {
	payload, err := json.Marshal(valkeyPayload{
		Prompt:    entry.Prompt,
		Raw:       entry.Raw,
		CreatedAt: entry.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.entryKey(entry.Fingerprint)).Value(string(payload)).Ex(s.ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(fp flowgen.Fingerprint) string {
	return fmt.Sprintf("%s:flow:%s", s.prefix, fp)
}

var _ flowgen.CacheStore = (*ValkeyStore)(nil)
