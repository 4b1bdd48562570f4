package redis

import (
	"context"
	"fmt"
	"time"

	"tripsmith/internal/infra/metrics"
)

// windowExpiry outlives the one-minute window slightly to tolerate clock
// skew between workers.
const windowExpiry = 75 * time.Second

// RateLimitResult is the outcome of one fixed-window check.
type RateLimitResult struct {
	Allowed           bool
	Remaining         int
	RetryAfterSeconds int
}

// RateLimiter counts requests per (user, route, calendar minute). The
// counter lives in Redis so all worker instances share one window; the
// store's atomic INCR is the only synchronization.
type RateLimiter struct {
	client RedisClient
	now    func() time.Time
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

func windowKey(userID, route string, window int64) string {
	return fmt.Sprintf("rl:%s:%s:%d", userID, route, window)
}

// Check atomically increments the current window counter and compares it
// against the limit. The first increment in a window sets the expiry.
func (r *RateLimiter) Check(ctx context.Context, userID, route string, limitPerMinute int) (RateLimitResult, error) {
	now := r.now().Unix()
	key := windowKey(userID, route, now/60)

	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, windowExpiry); err != nil {
			return RateLimitResult{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	remaining := limitPerMinute - int(count)
	if remaining < 0 {
		remaining = 0
	}
	if int(count) <= limitPerMinute {
		return RateLimitResult{Allowed: true, Remaining: remaining}, nil
	}
	metrics.IncRateLimitDenied(route)
	return RateLimitResult{
		Allowed:           false,
		RetryAfterSeconds: int(60 - now%60),
	}, nil
}
