package storage

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheOptions(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	c := NewRedisCache(client)
	assert.Equal(t, "ocr:text:abc", c.key("abc"))
	assert.Equal(t, 24*time.Hour, c.ttl)

	c = NewRedisCache(client, WithPrefix("t:"), WithTTL(time.Minute))
	assert.Equal(t, "t:abc", c.key("abc"))
	assert.Equal(t, time.Minute, c.ttl)
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisCache(client)

	_, hit, err := c.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Set(context.Background(), "abc", "text"))
}
