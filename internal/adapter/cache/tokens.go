package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/transit_ticket/internal/core/ports"
)

type TokenStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewTokenStore(rdb redis.Cmdable) *TokenStore {
	return &TokenStore{rdb: rdb, now: time.Now}
}

var _ ports.TokenStore = (*TokenStore)(nil)

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// Revoke keeps the jti until the token would have expired anyway.
func (s *TokenStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("could not revoke token: %w", err)
	}
	return nil
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("could not check token: %w", err)
	}
	return n > 0, nil
}

func generationKey(userID uuid.UUID) string {
	return "session-gen:" + userID.String()
}

func resetKey(token string) string {
	return "pwreset:" + token
}

// Generation is zero for a user who never logged out everywhere.
func (s *TokenStore) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := s.rdb.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not read session generation: %w", err)
	}
	return gen, nil
}

func (s *TokenStore) BumpGeneration(ctx context.Context, userID uuid.UUID) error {
	if err := s.rdb.Incr(ctx, generationKey(userID)).Err(); err != nil {
		return fmt.Errorf("could not bump session generation: %w", err)
	}
	return nil
}

func (s *TokenStore) SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, resetKey(token), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("could not save reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken reads and deletes the token in one step, so a token is
// good for a single reset.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := s.rdb.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not read reset token: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil
	}
	return id, nil
}
