package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rides/internal/domain"
)

// DefaultRideCacheTTL bounds how long a ride stays cached.
// Rides never change once stored, so the TTL only limits memory use.
const DefaultRideCacheTTL = 10 * time.Minute

const rideCachePrefix = "cache:ride:"

// CacheStore caches rides in Redis keyed by id.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore. A non-positive ttl uses DefaultRideCacheTTL.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultRideCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

func rideKey(id int64) string {
	return rideCachePrefix + strconv.FormatInt(id, 10)
}

// GetRide retrieves a ride from cache. It returns nil, nil on a miss.
func (s *CacheStore) GetRide(ctx context.Context, id int64) (*domain.Ride, error) {
	data, err := s.client.Get(ctx, rideKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var ride domain.Ride
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *domain.Ride) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rideKey(ride.ID), data, s.ttl).Err()
}

// Ping verifies the Redis connection.
func (s *CacheStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
