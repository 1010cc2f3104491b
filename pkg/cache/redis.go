package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client holds the Redis client backing the page store
type Client struct {
	Redis *redis.Client
}

// NewClient creates a new Redis client
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return &Client{
		Redis: client,
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Set sets a key-value pair with expiration. A zero expiration keeps
// the key until it is explicitly deleted.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Redis.Set(ctx, key, value, expiration).Err()
}

// Get gets a value by key. Returns redis.Nil when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.Redis.Get(ctx, key).Result()
}

// Delete deletes one or more keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Redis.Del(ctx, keys...).Err()
}

// Exists checks if a key exists
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.Redis.Exists(ctx, key).Result()
	return count > 0, err
}

// Keys returns all keys matching a pattern.
// Uses SCAN for better performance than the KEYS command.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	var cursor uint64
	var matched []string

	for {
		var keys []string
		var err error
		keys, cursor, err = c.Redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		matched = append(matched, keys...)

		// Cursor returns to 0 when the full iteration is complete
		if cursor == 0 {
			break
		}
	}

	return matched, nil
}
