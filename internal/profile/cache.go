package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Cache provides Redis-backed caching for profiles. A nil cache is a no-op.
type Cache struct {
	client *redis.Client
}

// NewCache constructs a profile cache backed by the provided Redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get fetches a cached profile if it exists.
func (c *Cache) Get(ctx context.Context, chatID int64) (*Profile, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, cacheKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}

	return &p, nil
}

// Set stores the profile in cache for the provided TTL.
func (c *Cache) Set(ctx context.Context, p *Profile, ttl time.Duration) error {
	if c == nil || c.client == nil || p == nil {
		return nil
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile for cache: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(p.ChatID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set cached profile: %w", err)
	}

	return nil
}

// Invalidate removes the cached profile entry if it exists.
func (c *Cache) Invalidate(ctx context.Context, chatID int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	if err := c.client.Del(ctx, cacheKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete cached profile: %w", err)
	}

	return nil
}

func cacheKey(chatID int64) string {
	return fmt.Sprintf("profile:%d", chatID)
}
