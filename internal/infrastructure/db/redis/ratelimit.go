package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit"

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: ratelimit:<scope>:<client>
type RateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per client in each window.
func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one request for key and reports whether it fits in the current
// window, together with the remaining budget and the time until the window
// resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Duration, error) {
	k := rateLimitPrefix + ":" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return true, l.limit, 0, fmt.Errorf("rate limit: %w", err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, ttl.Val(), nil
}

func (l *RateLimiter) Limit() int { return l.limit }
