package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores extracted text keyed by document SHA-1.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type CacheOption func(*RedisCache)

// WithPrefix sets the key prefix. Default "ocr:text:".
func WithPrefix(prefix string) CacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithTTL sets the entry lifetime; 0 keeps entries forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

// NewRedisCache wraps client. The caller owns and closes client.
func NewRedisCache(client *redis.Client, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		prefix: "ocr:text:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached text for sha1; a miss is ("", false, nil).
func (c *RedisCache) Get(ctx context.Context, sha1 string) (string, bool, error) {
	text, err := c.client.Get(ctx, c.key(sha1)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return text, true, nil
}

func (c *RedisCache) Set(ctx context.Context, sha1, text string) error {
	if err := c.client.Set(ctx, c.key(sha1), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) key(sha1 string) string {
	return c.prefix + sha1
}
