package summarizer

import (
	"context"
	"encoding/json"
	"time"

	"glocalnews/db"
	"glocalnews/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores generated summaries with the freshness window as TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, ttl: model.SummaryMaxAge}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*model.Summary, bool) {
	raw, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err != nil {
		return nil, false
	}

	var summary model.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}

	return &summary, true
}

func (c *RedisCache) Set(ctx context.Context, key string, summary *model.Summary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.fullKey(key), raw, c.ttl)
}

func (c *RedisCache) fullKey(key string) string {
	return db.SummaryCachePrefix + ":" + key
}
