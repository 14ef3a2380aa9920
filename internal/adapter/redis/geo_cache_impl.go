package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const geoCachePrefix = "geo:"

// GeoCacheImpl implements repository.GeoCacheRepository with plain string keys.
type GeoCacheImpl struct {
	client *redis.Client
}

func NewGeoCache(client *redis.Client) *GeoCacheImpl {
	return &GeoCacheImpl{client: client}
}

func (c *GeoCacheImpl) Get(ctx context.Context, ip string) (string, bool, error) {
	country, err := c.client.Get(ctx, geoCachePrefix+ip).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return country, true, nil
}

func (c *GeoCacheImpl) Set(ctx context.Context, ip, country string, ttl time.Duration) error {
	return c.client.Set(ctx, geoCachePrefix+ip, country, ttl).Err()
}
