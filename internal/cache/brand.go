package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BrandCacheKey is the single sorted-set key holding brand names
	BrandCacheKey = "brands:names"

	// BrandCacheTTL keeps the cache fresh per modal-open without hammering
	// the brands table. Concurrent inserts from other sessions become
	// visible after at most this long.
	BrandCacheTTL = 60 * time.Second
)

// BrandCache is the explicit cache handle for the brand name list.
// Invalidation policy: TTL-based refresh plus local append on insert.
type BrandCache interface {
	// GetNames returns the cached brand list in alphabetical order.
	// found=false means the cache is cold (missing key or expired TTL)
	// and the caller should warm it from the database.
	GetNames(ctx context.Context) (names []string, found bool, err error)

	// Warm replaces the cached list with the given names and resets the TTL.
	Warm(ctx context.Context, names []string) error

	// Add appends one name to the cached list without touching the TTL,
	// mirroring the optimistic local append the client performs when a
	// custom brand is typed.
	Add(ctx context.Context, name string) error

	// Invalidate drops the cache so the next read hits the database.
	Invalidate(ctx context.Context) error
}

// RedisBrandCache implements BrandCache on a Redis sorted set with zero
// scores, which gives lexicographic ordering for free.
type RedisBrandCache struct {
	client *redis.Client
}

func NewBrandCache(client *redis.Client) BrandCache {
	return &RedisBrandCache{client: client}
}

func (c *RedisBrandCache) GetNames(ctx context.Context) ([]string, bool, error) {
	exists, err := c.client.Exists(ctx, BrandCacheKey).Result()
	if err != nil {
		return nil, false, fmt.Errorf("check brand cache: %w", err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	names, err := c.client.ZRangeByLex(ctx, BrandCacheKey, &redis.ZRangeBy{
		Min: "-",
		Max: "+",
	}).Result()
	if err != nil {
		return nil, false, fmt.Errorf("read brand cache: %w", err)
	}

	return names, true, nil
}

func (c *RedisBrandCache) Warm(ctx context.Context, names []string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, BrandCacheKey)

	if len(names) > 0 {
		members := make([]redis.Z, 0, len(names))
		for _, name := range names {
			members = append(members, redis.Z{Score: 0, Member: name})
		}
		pipe.ZAdd(ctx, BrandCacheKey, members...)
	}
	pipe.Expire(ctx, BrandCacheKey, BrandCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("warm brand cache: %w", err)
	}
	return nil
}

func (c *RedisBrandCache) Add(ctx context.Context, name string) error {
	err := c.client.ZAdd(ctx, BrandCacheKey, redis.Z{Score: 0, Member: name}).Err()
	if err != nil {
		return fmt.Errorf("add to brand cache: %w", err)
	}
	return nil
}

func (c *RedisBrandCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, BrandCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate brand cache: %w", err)
	}
	return nil
}
