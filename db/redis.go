package db

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

const (
	// ArticleChannel carries JSON batches of newly stored or updated
	// articles; the API process bridges it into the live distributor.
	ArticleChannel = "glocalnews:articles"

	// SummaryCachePrefix namespaces cached summaries.
	SummaryCachePrefix = "glocalnews:summary"
)

// ConnectRedis opens a Redis client from REDIS_URL and pings it.
func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
