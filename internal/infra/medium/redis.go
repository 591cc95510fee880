package medium

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/harunari/todoro/internal/domain"
)

// Ensure Redis implements domain.Medium.
var _ domain.Medium = (*Redis)(nil)

// Redis stores keys in a redis server. Values are written without TTL;
// the task sequence lives until explicitly removed.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a redis medium over an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// NewRedisFromConfig dials redis using the [redis] configuration section.
func NewRedisFromConfig(cfg domain.RedisConfig) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

// Get returns the value stored under key. redis.Nil maps to absence.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set stores value under key.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		// OOM responses mean the server hit its maxmemory policy.
		if strings.Contains(err.Error(), "OOM") {
			return fmt.Errorf("redis set: %w: %w", domain.ErrMediumFull, err)
		}
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Remove deletes the value stored under key.
func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
