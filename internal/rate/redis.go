package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "piiquante:rl:"

// RedisLimiter shares counters between server instances. Each key is an
// INCR counter that expires with its window.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// NewRedisFromURL parses a redis:// URL and pings the server.
func NewRedisFromURL(ctx context.Context, url string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisLimiter{client: client}, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	k := keyPrefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis rate limit: %w", err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val() <= int64(limit), remaining, nil
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
