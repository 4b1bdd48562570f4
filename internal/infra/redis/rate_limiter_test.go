//go:build !integration

package redis

import (
	"context"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(newFakeRedis())
	limiter.now = fixedClock(time.Unix(1_700_000_040, 0))

	for i := 0; i < 5; i++ {
		res, err := limiter.Check(context.Background(), "u1", "plan", 5)
		if err != nil {
			t.Fatalf("Check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied within limit", i+1)
		}
		if res.Remaining != 5-(i+1) {
			t.Fatalf("remaining = %d after %d requests", res.Remaining, i+1)
		}
	}

	res, err := limiter.Check(context.Background(), "u1", "plan", 5)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Allowed {
		t.Fatalf("request over the limit allowed")
	}
}

func TestRateLimiterRetryAfterIsWindowRemainder(t *testing.T) {
	t.Parallel()

	// 17 seconds into the minute: 43 seconds remain.
	limiter := NewRateLimiter(newFakeRedis())
	limiter.now = fixedClock(time.Unix(1_700_000_000+17, 0))

	if _, err := limiter.Check(context.Background(), "u1", "plan", 1); err != nil {
		t.Fatalf("Check: %v", err)
	}
	res, err := limiter.Check(context.Background(), "u1", "plan", 1)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Allowed {
		t.Fatalf("second request allowed at limit 1")
	}
	want := int(60 - (1_700_000_000+17)%60)
	if res.RetryAfterSeconds != want {
		t.Fatalf("retry after = %d, want %d", res.RetryAfterSeconds, want)
	}
}

func TestRateLimiterWindowsAreIndependent(t *testing.T) {
	t.Parallel()

	fake := newFakeRedis()
	limiter := NewRateLimiter(fake)

	base := time.Unix(1_700_000_000, 0)
	limiter.now = fixedClock(base)
	for i := 0; i < 2; i++ {
		if _, err := limiter.Check(context.Background(), "u1", "plan", 1); err != nil {
			t.Fatalf("Check: %v", err)
		}
	}

	// Next calendar minute starts a fresh counter.
	limiter.now = fixedClock(base.Add(time.Minute))
	res, err := limiter.Check(context.Background(), "u1", "plan", 1)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("fresh window denied")
	}
}

func TestRateLimiterScopesUserAndRoute(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(newFakeRedis())
	limiter.now = fixedClock(time.Unix(1_700_000_000, 0))

	if _, err := limiter.Check(context.Background(), "u1", "plan", 1); err != nil {
		t.Fatalf("Check: %v", err)
	}

	res, err := limiter.Check(context.Background(), "u2", "plan", 1)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("other user shares the counter")
	}

	res, err = limiter.Check(context.Background(), "u1", "itinerary", 1)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("other route shares the counter")
	}
}

func TestRateLimiterSetsExpiryOnFirstHitOnly(t *testing.T) {
	t.Parallel()

	fake := newFakeRedis()
	limiter := NewRateLimiter(fake)
	now := time.Unix(1_700_000_000, 0)
	limiter.now = fixedClock(now)

	key := windowKey("u1", "plan", now.Unix()/60)
	if _, err := limiter.Check(context.Background(), "u1", "plan", 5); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if fake.expires[key] != windowExpiry {
		t.Fatalf("expiry = %v, want %v", fake.expires[key], windowExpiry)
	}

	// Simulate the key having decayed expiry; subsequent hits must not
	// refresh it or the window would never close under steady traffic.
	fake.expires[key] = 10 * time.Second
	if _, err := limiter.Check(context.Background(), "u1", "plan", 5); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if fake.expires[key] != 10*time.Second {
		t.Fatalf("expiry refreshed on non-first hit: %v", fake.expires[key])
	}
}
