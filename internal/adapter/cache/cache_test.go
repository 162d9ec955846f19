package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
)

func TestAvailabilityCache_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db)
	id := uuid.New()

	mock.ExpectGet("availability:" + id.String()).RedisNil()

	got, err := c.Get(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCache_SetThenGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db)
	a := domain.Availability{
		ScheduleID:     uuid.New(),
		TotalSeats:     10,
		AvailableSeats: 4,
		Classes: map[string]domain.FareClass{
			"economy": {Name: "economy", TotalSeats: 10, AvailableSeats: 4, Price: 1_250_000, Currency: "VND"},
		},
	}
	data, err := json.Marshal(a)
	require.NoError(t, err)

	mock.ExpectSet("availability:"+a.ScheduleID.String(), data, AvailabilityTTL).SetVal("OK")
	mock.ExpectGet("availability:" + a.ScheduleID.String()).SetVal(string(data))

	require.NoError(t, c.Set(context.Background(), a))
	got, err := c.Get(context.Background(), a.ScheduleID)

	require.NoError(t, err)
	assert.Equal(t, a, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCache_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db)
	id := uuid.New()

	mock.ExpectDel("availability:" + id.String()).SetVal(1)

	assert.NoError(t, c.Invalidate(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCache_ReadError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db)
	id := uuid.New()

	mock.ExpectGet("availability:" + id.String()).SetErr(errors.New("connection refused"))

	_, err := c.Get(context.Background(), id)

	assert.ErrorContains(t, err, "connection refused")
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRateLimiter(db, 2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	key := l.key("user:42")
	ctx := context.Background()

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "user:42")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "request %d", i+1)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_NewWindowNewKey(t *testing.T) {
	l := NewRateLimiter(nil, 2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	first := l.key("ip:10.0.0.1")

	now = now.Add(time.Minute)

	assert.NotEqual(t, first, l.key("ip:10.0.0.1"))
}

func TestRateLimiter_RedisDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRateLimiter(db, 2, time.Minute)
	l.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	mock.ExpectIncr(l.key("user:42")).SetErr(errors.New("connection refused"))

	ok, err := l.Allow(context.Background(), "user:42")

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestTokenStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewTokenStore(db)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	mock.ExpectSet("revoked:jti-1", 1, time.Hour).SetVal("OK")
	mock.ExpectExists("revoked:jti-1").SetVal(1)
	mock.ExpectExists("revoked:jti-2").SetVal(0)

	require.NoError(t, s.Revoke(ctx, "jti-1", now.Add(time.Hour)))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_AlreadyExpiredIsNoop(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewTokenStore(db)

	require.NoError(t, s.Revoke(context.Background(), "jti-1", time.Now().Add(-time.Minute)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_ZeroWindowIsAnError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRateLimiter(db, 2, 0)

	ok, err := l.Allow(context.Background(), "user:42")

	assert.ErrorIs(t, err, errNoWindow)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Generation(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewTokenStore(db)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectGet(generationKey(userID)).RedisNil()
	mock.ExpectIncr(generationKey(userID)).SetVal(1)
	mock.ExpectGet(generationKey(userID)).SetVal("1")

	gen, err := s.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, s.BumpGeneration(ctx, userID))

	gen, err = s.Generation(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_ResetTokenIsSingleUse(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewTokenStore(db)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectSet(resetKey("tok"), userID.String(), time.Hour).SetVal("OK")
	mock.ExpectGetDel(resetKey("tok")).SetVal(userID.String())
	mock.ExpectGetDel(resetKey("tok")).RedisNil()

	require.NoError(t, s.SaveResetToken(ctx, "tok", userID, time.Hour))

	got, err := s.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = s.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
