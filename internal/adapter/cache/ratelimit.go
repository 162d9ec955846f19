package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/transit_ticket/internal/core/ports"
)

// RateLimiter is a fixed window counter shared by every instance through
// redis. The counter key carries the window number so a new window starts
// from zero without a reset.
type RateLimiter struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(rdb redis.Cmdable, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: int64(limit), window: window, now: time.Now}
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

var errNoWindow = errors.New("rate limit window must be positive")

func (l *RateLimiter) key(subject string) string {
	bucket := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("ratelimit:%s:%d", subject, bucket)
}

func (l *RateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	if l.window <= 0 {
		return false, errNoWindow
	}

	key := l.key(subject)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("could not increment rate counter: %w", err)
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("could not expire rate counter: %w", err)
		}
	}

	return count <= l.limit, nil
}
