// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix is the Valkey key prefix for rate-limit counters.
const rateKeyPrefix = "ratelimit:"

// RateLimiter counts requests per key in fixed windows stored in Valkey,
// so every replica shares the same budget.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit requests per key per window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow increments the counter for key and reports whether the request is
// within budget. Valkey errors fail open: the request is allowed and the
// error logged.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	count, err := rl.incr(ctx, key)
	if err != nil {
		slog.Warn("rate limit counter error", "key", key, "error", err)
		return true
	}
	return count <= int64(rl.limit)
}

// incr bumps the counter for the current window. The key embeds the
// window start, so refreshing its expiry never carries a count over.
func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	windowStart := rl.now().Truncate(rl.window).Unix()
	k := fmt.Sprintf("%s%s:%d", rateKeyPrefix, key, windowStart)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val(), nil
}
