package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const detailKeyPrefix = "place:detail:"

// RedisPlaceDetailCache stores place detail records as JSON with a TTL.
type RedisPlaceDetailCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlaceDetailCache(client *redis.Client, ttl time.Duration) *RedisPlaceDetailCache {
	return &RedisPlaceDetailCache{Client: client, TTL: ttl}
}

// Get returns the cached detail for placeID. A miss returns (nil, nil).
func (c *RedisPlaceDetailCache) Get(ctx context.Context, placeID string) (_ *domain.PlaceDetail, err error) {
	defer obs.Time(ctx, "detail.cache.Get")(&err)

	if c.Client == nil {
		return nil, errors.New("detail cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, detailKeyPrefix+placeID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get detail cache place_id=%q: %w", placeID, err)
	}

	var d domain.PlaceDetail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("get detail cache place_id=%q: decode: %w", placeID, err)
	}
	return &d, nil
}

// Put stores d under its id.
func (c *RedisPlaceDetailCache) Put(ctx context.Context, d *domain.PlaceDetail) error {
	if c.Client == nil {
		return errors.New("detail cache: client is nil")
	}
	if d == nil || d.ID == "" {
		return errors.New("put detail cache: detail must have an id")
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("put detail cache place_id=%q: encode: %w", d.ID, err)
	}

	if err := c.Client.Set(ctx, detailKeyPrefix+d.ID, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put detail cache place_id=%q: %w", d.ID, err)
	}
	return nil
}
