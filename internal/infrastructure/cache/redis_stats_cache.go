package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	financeapp "github.com/worklane/backend/internal/application/finance"
	"github.com/worklane/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure RedisStatsCache implements the application-layer contract
var _ financeapp.StatsCache = (*RedisStatsCache)(nil)

// keyPrefix namespaces every key this cache writes so Invalidate can
// scan and remove only its own entries.
const keyPrefix = "worklane:"

// RedisStatsCache caches ledger statistics in Redis. All operations are
// best-effort: Redis being down degrades to recomputing stats on every
// request, never to an error surfaced to callers.
type RedisStatsCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisStatsCache creates a new RedisStatsCache
func NewRedisStatsCache(client *redis.Client, logger *zap.Logger) *RedisStatsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStatsCache{client: client, logger: logger}
}

// GetStats retrieves cached stats; a miss or any Redis error reports
// not-found so the caller recomputes.
func (c *RedisStatsCache) GetStats(ctx context.Context, key string) (*financeapp.LedgerStatsResponse, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var stats financeapp.LedgerStatsResponse
	if err := json.Unmarshal(data, &stats); err != nil {
		c.logger.Warn("stats cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, keyPrefix+key)
		return nil, false
	}
	return &stats, true
}

// SetStats stores computed stats with a TTL
func (c *RedisStatsCache) SetStats(ctx context.Context, key string, stats *financeapp.LedgerStatsResponse, ttl time.Duration) {
	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("failed to marshal stats for cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached stats entry. Called after ledger writes.
func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("stats cache scan failed during invalidation", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
