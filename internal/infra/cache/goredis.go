package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// GoRedisClient adapts a go-redis client to the RedisClient interface.
type GoRedisClient struct {
	rdb *redis.Client
}

// NewGoRedisClient connects to a Redis server and verifies the connection.
func NewGoRedisClient(ctx context.Context, addr, password string, db int) (*GoRedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &GoRedisClient{rdb: rdb}, nil
}

func (c *GoRedisClient) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *GoRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

func (c *GoRedisClient) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Close releases the underlying connection pool.
func (c *GoRedisClient) Close() error {
	return c.rdb.Close()
}

var _ RedisClient = (*GoRedisClient)(nil)
