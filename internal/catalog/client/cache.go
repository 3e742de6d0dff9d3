package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/catalog-console/pkg/logger"
)

// CategoryCache holds the category list, which changes rarely.
// Products are never cached.
type CategoryCache interface {
	Get(ctx context.Context) ([]string, bool)
	Set(ctx context.Context, categories []string)
}

// RedisCategoryCache caches categories in Redis with a fixed TTL
type RedisCategoryCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCategoryCache returns a cache keyed by the catalog origin, or nil when
// redisClient is nil
func NewRedisCategoryCache(redisClient *redis.Client, baseURL string, ttl time.Duration) CategoryCache {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCategoryCache{
		client: redisClient,
		key:    generateCacheKey(baseURL + "/products/categories"),
		ttl:    ttl,
	}
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]string, bool) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil || len(raw) == 0 {
		logger.Debug(ctx).Str("cache_key", c.key).Msg("Cache miss")
		return nil, false
	}

	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false
	}

	logger.Debug(ctx).Str("cache_key", c.key).Msg("Cache hit")
	return categories, true
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []string) {
	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("cache_key", c.key).
			Msg("Failed to cache categories")
	}
}

func generateCacheKey(target string) string {
	hash := sha256.Sum256([]byte(target))
	return "cache:" + hex.EncodeToString(hash[:])
}

type noopCache struct{}

func (noopCache) Get(context.Context) ([]string, bool) { return nil, false }
func (noopCache) Set(context.Context, []string)        {}
