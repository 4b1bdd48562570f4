//go:build !integration

package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// fakeRedis is an in-process RedisClient with just enough semantics for
// the cache and rate limiter: string values, INCR counters, and recorded
// expirations (never enforced; tests advance their own clocks).
type fakeRedis struct {
	mu      sync.Mutex
	store   map[string]string
	counts  map[string]int64
	expires map[string]time.Duration
	sets    int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		store:   map[string]string{},
		counts:  map[string]int64{},
		expires: map[string]time.Duration{},
	}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.store[key] = v
	case []byte:
		f.store[key] = string(v)
	}
	f.expires[key] = expiration
	f.sets++
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.store[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = expiration
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.store, k)
		delete(f.counts, k)
		delete(f.expires, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

var _ RedisClient = (*fakeRedis)(nil)
