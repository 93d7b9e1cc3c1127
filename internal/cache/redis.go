package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient wraps a Redis connection with JSON value handling.
type RedisClient struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisClient connects to Redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedisClient(ctx context.Context, url string, timeout time.Duration, logger *logrus.Logger) (*RedisClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if timeout > 0 {
		opts.DialTimeout = timeout
		opts.ReadTimeout = timeout
		opts.WriteTimeout = timeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("addr", opts.Addr).Info("Connected to Redis")
	return &RedisClient{client: client, logger: logger}, nil
}

// NewRedisClientFromExisting wraps an already-constructed client. Used by
// tests running against miniredis.
func NewRedisClientFromExisting(client *redis.Client, logger *logrus.Logger) *RedisClient {
	return &RedisClient{client: client, logger: logger}
}

// Set marshals value to JSON and stores it under key with the given TTL.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Get loads the JSON value stored under key into dest. Returns ErrCacheMiss
// when the key is absent.
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
