package reports

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps dashboard summaries hot for a short window. The
// dashboard polls much faster than the pipeline changes.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*Summary, bool, error)
	Set(ctx context.Context, key string, sum *Summary, ttl time.Duration) error
}

type RedisSummaryCache struct {
	client *redis.Client
	prefix string
}

func NewRedisSummaryCache(client *redis.Client, prefix string) *RedisSummaryCache {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "radar:cache:"
	}
	return &RedisSummaryCache{client: client, prefix: p}
}

func (c *RedisSummaryCache) key(k string) string {
	return c.prefix + "summary:" + k
}

func (c *RedisSummaryCache) Get(ctx context.Context, key string) (*Summary, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var sum Summary
	if err := json.Unmarshal([]byte(val), &sum); err != nil {
		return nil, false, err
	}
	return &sum, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, key string, sum *Summary, ttl time.Duration) error {
	payload, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), payload, ttl).Err()
}
