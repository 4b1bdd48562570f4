package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"tripsmith/internal/infra/metrics"
)

// Cache is the cache-aside wrapper shielding upstream providers. Concurrent
// misses on the same key may both invoke compute; provider calls are
// idempotent reads, so no single-flight is needed.
type Cache struct {
	client RedisClient
}

func NewCache(client RedisClient) *Cache {
	return &Cache{client: client}
}

// Key derives a deterministic cache key from a request payload: canonical
// JSON (sorted keys, no whitespace) hashed with SHA-256, prefixed by the
// namespace tag.
func Key(namespace string, payload any) string {
	raw, err := canonicalJSON(payload)
	if err != nil {
		// Marshal failures only happen for non-JSON-able payloads; fall back
		// to an uncacheable-but-valid key rather than erroring the read path.
		raw = []byte(fmt.Sprintf("%+v", payload))
	}
	sum := sha256.Sum256(raw)
	return "cache:" + namespace + ":" + hex.EncodeToString(sum[:])
}

// canonicalJSON round-trips the payload through a generic value so that
// struct field order cannot leak into the key; encoding/json emits map keys
// sorted and compact.
func canonicalJSON(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// GetOrCompute returns the cached value for key, or invokes compute, stores
// the result with ttl, and returns it. At most one cache write per miss.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	hit, err := c.client.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("provider", "hit")
		return []byte(hit), nil
	}
	if !IsNil(err) {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	metrics.IncCacheRequest("provider", "miss")

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, value, ttl); err != nil {
		return nil, fmt.Errorf("cache set %s: %w", key, err)
	}
	return value, nil
}
