package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/skilllink/internal/cache"
	"github.com/oggyb/skilllink/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	c := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRightSwipeCount(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, ok, err := c.GetRightSwipeCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "empty cache is a miss")

	require.NoError(t, c.SetRightSwipeCount(ctx, "u1", 4))
	n, ok, err := c.GetRightSwipeCount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)

	mr.FastForward(2 * time.Hour)
	_, ok, err = c.GetRightSwipeCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "counter expires after its TTL")

	require.NoError(t, c.SetRightSwipeCount(ctx, "u1", 1))
	require.NoError(t, c.InvalidateRightSwipeCount(ctx, "u1"))
	_, ok, _ = c.GetRightSwipeCount(ctx, "u1")
	assert.False(t, ok)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	_, ok, err := c.TopPoints(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok, "not built yet")

	// increments before a build are dropped; the rebuild reads the DB
	require.NoError(t, c.AddPoints(ctx, "ghost", 100))

	require.NoError(t, c.ReplaceLeaderboard(ctx, []cache.LeaderboardEntry{
		{UserID: "a", Points: 5},
		{UserID: "b", Points: 7},
	}))
	require.NoError(t, c.AddPoints(ctx, "a", 5))

	top, ok, err := c.TopPoints(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].UserID)
	assert.Equal(t, int64(10), top[0].Points)
	assert.Equal(t, "b", top[1].UserID)

	top, _, err = c.TopPoints(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestTopPointsBreaksTiesBySmallestID(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.ReplaceLeaderboard(ctx, []cache.LeaderboardEntry{
		{UserID: "u1", Points: 2},
		{UserID: "u2", Points: 2},
		{UserID: "u3", Points: 2},
		{UserID: "u4", Points: 9},
		{UserID: "u5", Points: 1},
	}))

	top, ok, err := c.TopPoints(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []cache.LeaderboardEntry{
		{UserID: "u4", Points: 9},
		{UserID: "u1", Points: 2},
	}, top)

	top, _, err = c.TopPoints(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []cache.LeaderboardEntry{
		{UserID: "u4", Points: 9},
		{UserID: "u1", Points: 2},
		{UserID: "u2", Points: 2},
	}, top)

	top, _, err = c.TopPoints(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, top, 5)
	assert.Equal(t, "u5", top[4].UserID)
}
