package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
)

const AvailabilityTTL = 30 * time.Second

type AvailabilityCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewAvailabilityCache(rdb redis.Cmdable) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: AvailabilityTTL}
}

var _ ports.AvailabilityCache = (*AvailabilityCache)(nil)

func availabilityKey(scheduleID uuid.UUID) string {
	return fmt.Sprintf("availability:%s", scheduleID.String())
}

func (c *AvailabilityCache) Get(ctx context.Context, scheduleID uuid.UUID) (*domain.Availability, error) {
	data, err := c.rdb.Get(ctx, availabilityKey(scheduleID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read availability: %w", err)
	}

	var a domain.Availability
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("could not decode availability: %w", err)
	}

	return &a, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, a domain.Availability) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("could not encode availability: %w", err)
	}
	return c.rdb.Set(ctx, availabilityKey(a.ScheduleID), data, c.ttl).Err()
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, scheduleID uuid.UUID) error {
	return c.rdb.Del(ctx, availabilityKey(scheduleID)).Err()
}
