package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/staybooking/config"
	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client          *redis.Client
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, availabilityTTL: availabilityTTL}
}

// AvailabilityVersion returns the current cache generation of a place; 0 when never invalidated.
func (c *RedisCache) AvailabilityVersion(ctx context.Context, placeID int64) (int64, error) {
	version, err := c.client.Get(ctx, availabilityVersionKey(placeID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

// GetAvailability returns nil on a cache miss.
func (c *RedisCache) GetAvailability(ctx context.Context, placeID, version int64) ([]domain.Stay, error) {
	data, err := c.client.Get(ctx, availabilityKey(placeID, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	stays := make([]domain.Stay, 0)
	if err := json.Unmarshal(data, &stays); err != nil {
		return nil, err
	}
	return stays, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, placeID, version int64, stays []domain.Stay) error {
	payload, err := json.Marshal(stays)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(placeID, version), payload, c.availabilityTTL).Err()
}

// InvalidateAvailability bumps the place version; entries of older versions expire with their TTL.
func (c *RedisCache) InvalidateAvailability(ctx context.Context, placeID int64) error {
	return c.client.Incr(ctx, availabilityVersionKey(placeID)).Err()
}

// AcquireRequestLock guards against a guest submitting the same place twice concurrently.
func (c *RedisCache) AcquireRequestLock(ctx context.Context, guestID, placeID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, requestLockKey(guestID, placeID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseRequestLock(ctx context.Context, guestID, placeID int64) error {
	return c.client.Del(ctx, requestLockKey(guestID, placeID)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func availabilityVersionKey(placeID int64) string {
	return fmt.Sprintf("cache:place:%d:availability:version", placeID)
}

func availabilityKey(placeID, version int64) string {
	return fmt.Sprintf("cache:place:%d:availability:v%d", placeID, version)
}

func requestLockKey(guestID, placeID int64) string {
	return fmt.Sprintf("lock:booking:place:%d:guest:%d", placeID, guestID)
}
