package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blocklistKey = "agora:blocked_ips"

// IPBlocklist is the TTL-entry IP blocklist backing the hidden /internal/block-ip routes.
// Entries are stored as members of a single sorted set keyed by their expiry time, so a
// listing can drop anything that has aged out without a separate sweep process.
type IPBlocklist struct {
	redis *RedisCache
}

// NewIPBlocklist wraps an existing Redis connection as an IP blocklist.
func NewIPBlocklist(redis *RedisCache) *IPBlocklist {
	return &IPBlocklist{redis: redis}
}

// Block adds an IP to the blocklist for the given TTL.
func (b *IPBlocklist) Block(ctx context.Context, ip string, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl)
	if err := b.redis.client.ZAdd(ctx, blocklistKey, redis.Z{
		Score:  float64(expiresAt.Unix()),
		Member: ip,
	}).Err(); err != nil {
		return fmt.Errorf("block ip: %w", err)
	}
	return nil
}

// IsBlocked reports whether an IP is currently blocked, evicting it first if its entry has
// expired.
func (b *IPBlocklist) IsBlocked(ctx context.Context, ip string) (bool, error) {
	score, err := b.redis.client.ZScore(ctx, blocklistKey, ip).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check ip blocklist: %w", err)
	}
	if int64(score) <= time.Now().Unix() {
		_ = b.redis.client.ZRem(ctx, blocklistKey, ip).Err()
		return false, nil
	}
	return true, nil
}

// List returns every currently-blocked IP, first pruning any expired entries.
func (b *IPBlocklist) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := b.redis.client.ZRemRangeByScore(ctx, blocklistKey, "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("prune ip blocklist: %w", err)
	}
	ips, err := b.redis.client.ZRangeByScore(ctx, blocklistKey, &redis.ZRangeBy{
		Min: fmt.Sprintf("%f", now),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list ip blocklist: %w", err)
	}
	return ips, nil
}
