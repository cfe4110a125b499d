package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripflow/server/internal/agent/model"
	errx "github.com/tripflow/server/internal/core/error"
	logx "github.com/tripflow/server/pkg/logger"
)

// RedisSearchCache stores enumerated search result sets as JSON with a
// fixed TTL. Concurrent duplicate population on a miss is acceptable:
// lookups are side-effect-free and overwriting with an equivalent result is
// harmless.
type RedisSearchCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSearchCache(rdb redis.Cmdable, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{rdb: rdb, ttl: ttl}
}

func (c *RedisSearchCache) GetFlights(ctx context.Context, key string) (map[string]model.Flight, bool, error) {
	var flights map[string]model.Flight
	ok, err := c.getJSON(ctx, key, &flights)
	return flights, ok, err
}

func (c *RedisSearchCache) SetFlights(ctx context.Context, key string, flights map[string]model.Flight) error {
	return c.setJSON(ctx, key, flights)
}

func (c *RedisSearchCache) GetHotels(ctx context.Context, key string) (map[string]model.Hotel, bool, error) {
	var hotels map[string]model.Hotel
	ok, err := c.getJSON(ctx, key, &hotels)
	return hotels, ok, err
}

func (c *RedisSearchCache) SetHotels(ctx context.Context, key string, hotels map[string]model.Hotel) error {
	return c.setJSON(ctx, key, hotels)
}

func (c *RedisSearchCache) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("cache get failed")
		return false, errx.WrapRedis(err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// A malformed entry is as good as a miss; the caller repopulates.
		logx.Warn().Err(err).Str("key", key).Msg("corrupted cache entry, treating as miss")
		return false, nil
	}
	return true, nil
}

func (c *RedisSearchCache) setJSON(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("cache set failed")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SearchCache = (*RedisSearchCache)(nil)
