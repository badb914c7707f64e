package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix namespaces per-year holiday lists in Redis.
const cacheKeyPrefix = "kinenbi:holidays:year:"

// HolidayCache stores year lists in front of the repository.
type HolidayCache interface {
	// GetYear reports found=false on a miss.
	GetYear(ctx context.Context, year int) (holidays []Holiday, found bool, err error)
	SetYear(ctx context.Context, year int, holidays []Holiday) error
	Invalidate(ctx context.Context) error
}

type redisHolidayCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a Redis-backed HolidayCache.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) HolidayCache {
	return &redisHolidayCache{rdb: rdb, ttl: ttl}
}

func cacheKey(year int) string {
	return cacheKeyPrefix + strconv.Itoa(year)
}

func (c *redisHolidayCache) GetYear(ctx context.Context, year int) ([]Holiday, bool, error) {
	data, err := c.rdb.Get(ctx, cacheKey(year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading holiday cache: %w", err)
	}

	var out []Holiday
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("unmarshaling holiday cache: %w", err)
	}
	return out, true, nil
}

func (c *redisHolidayCache) SetYear(ctx context.Context, year int, holidays []Holiday) error {
	if holidays == nil {
		holidays = []Holiday{}
	}
	data, err := json.Marshal(holidays)
	if err != nil {
		return fmt.Errorf("marshaling holiday cache: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(year), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing holiday cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached year.
func (c *redisHolidayCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning holiday cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clearing holiday cache: %w", err)
	}
	return nil
}

// nopCache is used when no Redis is configured (the CLI).
type nopCache struct{}

// NewNopCache returns a HolidayCache that never hits.
func NewNopCache() HolidayCache { return nopCache{} }

func (nopCache) GetYear(context.Context, int) ([]Holiday, bool, error) { return nil, false, nil }
func (nopCache) SetYear(context.Context, int, []Holiday) error          { return nil }
func (nopCache) Invalidate(context.Context) error                       { return nil }
