// Package redis provides the Redis-backed plan cache
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/ports/outbound"
)

// CacheRepository implements outbound.CacheRepository on Redis. Cache
// failures are logged and surfaced, never fatal; the caller treats the
// cache as best-effort.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger

	// keyPrefix namespaces entries so Flush cannot clear unrelated keys.
	keyPrefix string
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates a Redis cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client:    client,
		logger:    logger.Named("cache-redis"),
		keyPrefix: "mealforge:",
	}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Get retrieves a cached value; the second return reports a hit.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value with a TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.keyPrefix+key, value, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Flush drops every namespaced entry. Runs SCAN in batches so a large
// cache does not block the server the way KEYS would.
func (r *CacheRepository) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 200 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	r.logger.Info("cache flushed")
	return nil
}
