package ordernum

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter implements CounterStore on a Redis client. INCR is atomic
// on the server, so concurrent increments never observe the same value.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates new RedisCounter instance
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// IncrementAndGet atomically increments the counter at key and refreshes
// its expiry in a single pipelined round trip
func (c *RedisCounter) IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
