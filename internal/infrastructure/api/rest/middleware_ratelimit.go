package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/agoraforge/agora/pkg/models"
)

// RateLimiter is a fixed-window Redis counter, one per action. The server builds post, reply
// and vote limiters; no limiter is built from the configured anonymous limit.
// Modeled on the teacher's RedisRateLimiter, reduced to a single window (no block-on-exceed
// escalation) since actions here are independent of each other rather than login-attempt-style
// cumulative abuse.
type RateLimiter struct {
	client    redis.UniversalClient
	keyPrefix string
	limit     int
	window    time.Duration
}

// NewRateLimiter creates a limiter for one action, allowing `limit` requests per minute.
func NewRateLimiter(client redis.UniversalClient, action string, limitPerMinute int) *RateLimiter {
	return &RateLimiter{
		client:    client,
		keyPrefix: "agora:ratelimit:" + action + ":",
		limit:     limitPerMinute,
		window:    time.Minute,
	}
}

// Allow increments the caller's counter for this window and reports whether they're still
// under the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	countKey := rl.keyPrefix + key

	count, err := rl.client.Incr(ctx, countKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, countKey, rl.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return int(count) <= rl.limit, nil
}

// Middleware returns gin middleware enforcing this limiter, keyed by the authenticated user ID
// when present, the client IP otherwise. A Redis error fails open (matching the teacher's
// RedisRateLimiter.Middleware, which allows the request through rather than blocking traffic
// on a cache outage) but is logged by the surrounding request logger via c.Errors.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetUserID(c)
		if !ok {
			key = c.ClientIP()
		}

		allowed, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}
		if !allowed {
			respondError(c, models.ErrRateLimited)
			return
		}

		c.Next()
	}
}
