package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the go-redis client used for the local activity snapshot
type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// Cache key constants
const (
	// KeySnapshot holds the whole activity list as one JSON blob
	KeySnapshot = "portfolio:activities:snapshot"
	// KeySnapshotWrittenAt records when the snapshot was last mirrored
	KeySnapshotWrittenAt = "portfolio:activities:snapshot:written_at"
)

// TTL constants
const (
	// TTLSnapshot keeps the fallback copy around long enough to survive
	// extended record store outages
	TTLSnapshot = 30 * 24 * time.Hour
)

// NewClient creates a new Redis client
func NewClient(redisURL string, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{
		rdb:        rdb,
		KeyBuilder: NewKeyBuilder(environment),
		log:        log,
	}, nil
}

// NewClientFromRDB wraps an existing go-redis client, used by tests with miniredis
func NewClientFromRDB(rdb *redis.Client, environment string, log *zap.Logger) *Client {
	return &Client{
		rdb:        rdb,
		KeyBuilder: NewKeyBuilder(environment),
		log:        log,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get retrieves a value from Redis. A missing key returns redis.Nil.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		c.log.Warn("redis_get",
			zap.String("key", key),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return "", err
	}
	c.log.Debug("redis_get",
		zap.String("key", key),
		zap.Duration("duration", time.Since(start)))
	return val, err
}

// Set stores a value in Redis with TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	if err != nil {
		c.log.Warn("redis_set",
			zap.String("key", key),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
	c.log.Debug("redis_set",
		zap.String("key", key),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	err := c.rdb.Del(ctx, keys...).Err()
	c.log.Debug("redis_del", zap.Int("keys", len(keys)), zap.Error(err))
	return err
}

// Exists checks if a key exists
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Exists(ctx, keys...).Result()
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// IsNil reports whether err is the go-redis missing-key sentinel
func IsNil(err error) bool {
	return err == redis.Nil
}
