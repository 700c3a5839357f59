package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/config"
)

// RedisClient wraps the go-redis client with helper methods. A client that
// could not connect (or was disabled via config) runs in degraded mode:
// every read misses, every write is a no-op and no method ever returns an
// error. A cache outage must never surface as a request failure.
type RedisClient struct {
	client   *redis.Client
	degraded bool
}

// ErrCacheMiss is returned by Get when the key does not exist or the cache
// is degraded.
var ErrCacheMiss = redis.Nil

// NewRedisClient creates a new Redis client from config. Connection failure
// is not fatal; the returned client is degraded and logs a warning.
func NewRedisClient(cfg *config.RedisConfig, disabled bool) *RedisClient {
	if disabled {
		log.Warn().Msg("Cache disabled by configuration, running without Redis")
		return &RedisClient{degraded: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, running degraded (all lookups miss)")
		client.Close()
		return &RedisClient{degraded: true}
	}

	return &RedisClient{client: client}
}

// NewRedisClientFromBackend wraps an existing go-redis client. Used by tests.
func NewRedisClientFromBackend(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// Connected reports whether a live Redis backend is in use.
func (r *RedisClient) Connected() bool {
	return !r.degraded
}

// Set stores a key-value pair with TTL. No-op in degraded mode.
func (r *RedisClient) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if r.degraded {
		return nil
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return nil
}

// Get retrieves a value by key. Returns ErrCacheMiss when absent or degraded.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	if r.degraded {
		return "", ErrCacheMiss
	}
	v, err := r.client.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return "", ErrCacheMiss
	}
	return v, err
}

// Delete removes keys. No-op in degraded mode.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if r.degraded || len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("Cache delete failed")
	}
	return nil
}

// DeletePattern removes every key matching a glob pattern (e.g.
// "inventory:sanmar:*") using SCAN so large keyspaces are not blocked.
// Returns the number of keys removed.
func (r *RedisClient) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if r.degraded {
		return 0, nil
	}

	deleted := 0
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.client.Del(ctx, batch...).Err(); err == nil {
				deleted += len(batch)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("Cache scan failed")
		return deleted, nil
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err == nil {
			deleted += len(batch)
		}
	}
	return deleted, nil
}

// Ping checks connectivity to the backing store.
func (r *RedisClient) Ping(ctx context.Context) bool {
	if r.degraded {
		return false
	}
	return r.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	if r.degraded {
		return nil
	}
	return r.client.Close()
}
