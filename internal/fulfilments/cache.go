package fulfilments

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const linksCacheKey = "fulfilment:links"

// Cache keeps the link listing in Redis. Assignments invalidate it, so the
// projection is at most one TTL stale and never stale after a local write.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// FetchLinks loads the cached listing or populates it using the loader.
func (c *Cache) FetchLinks(ctx context.Context, loader func(context.Context) ([]Link, error)) ([]Link, error) {
	if loader == nil {
		return nil, errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	payload, err := c.client.Get(ctx, linksCacheKey).Bytes()
	if err == nil {
		var links []Link
		if err := json.Unmarshal(payload, &links); err == nil {
			return links, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	links, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, linksCacheKey, raw, c.ttl).Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// Invalidate drops the cached listing.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, linksCacheKey).Err()
}
