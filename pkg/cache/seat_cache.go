// Package cache provides a Redis-backed read cache for seat snapshots
// served to polling clients. The cache is a display hint only: the
// inventory store remains the single source of truth, and staleness
// between polls is expected.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"book-your-show/internal/data/entity"
	"book-your-show/pkg/utils"
)

// NewRedisClient connects to Redis. Returns nil on failure so callers can
// degrade gracefully with caching disabled.
func NewRedisClient(config utils.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

type SeatCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewSeatCache wraps a Redis client. A nil client disables the cache; every
// method becomes a no-op miss.
func NewSeatCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *SeatCache {
	return &SeatCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("component", "seat_cache")),
	}
}

func seatKey(eventID uuid.UUID) string {
	return fmt.Sprintf("seats:%s", eventID.String())
}

// Get returns the cached snapshot for the event, or nil on miss.
func (c *SeatCache) Get(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	if c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, seatKey(eventID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// Cache errors must never fail the read path.
		c.log.Warn("Seat cache read failed", zap.Error(err), zap.String("event_id", eventID.String()))
		return nil, nil
	}

	var seats []*entity.Seat
	if err := json.Unmarshal(raw, &seats); err != nil {
		c.log.Warn("Seat cache decode failed", zap.Error(err), zap.String("event_id", eventID.String()))
		return nil, nil
	}
	return seats, nil
}

// Set stores a seat snapshot with the configured TTL.
func (c *SeatCache) Set(ctx context.Context, eventID uuid.UUID, seats []*entity.Seat) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(seats)
	if err != nil {
		c.log.Warn("Seat cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, seatKey(eventID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Seat cache write failed", zap.Error(err), zap.String("event_id", eventID.String()))
	}
}

// Invalidate drops the snapshot after any seat transition so the next poll
// rebuilds from the inventory store.
func (c *SeatCache) Invalidate(ctx context.Context, eventID uuid.UUID) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, seatKey(eventID)).Err(); err != nil {
		c.log.Warn("Seat cache invalidate failed", zap.Error(err), zap.String("event_id", eventID.String()))
	}
}
