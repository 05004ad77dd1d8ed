package obras

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "radar:cache:"
	}
	return &RedisCache{client: client, prefix: p}
}

func (c *RedisCache) keyByID(id string) string {
	return c.prefix + "obra:" + id
}

func (c *RedisCache) GetByID(ctx context.Context, id string) (*Obra, bool, error) {
	val, err := c.client.Get(ctx, c.keyByID(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var o Obra
	if err := json.Unmarshal([]byte(val), &o); err != nil {
		return nil, false, err
	}
	return &o, true, nil
}

func (c *RedisCache) SetByID(ctx context.Context, o *Obra, ttl time.Duration) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.keyByID(o.ID), payload, ttl).Err()
}

func (c *RedisCache) DeleteByID(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.keyByID(id)).Err()
}
