package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis counts attempts in a shared key with a window-length TTL set on
// the first attempt.
type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{client: client, max: max, window: window, prefix: "featherlite:login:"}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Incr(ctx, r.prefix+key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, r.prefix+key, r.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(r.max), nil
}
