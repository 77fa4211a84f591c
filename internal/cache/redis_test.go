package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hey-granth/profile-guard/internal/cache"
	"github.com/hey-granth/profile-guard/internal/config"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	c := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestLikeCount_MissSetHit(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	_, ok, err := c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetLikeCount(ctx, 7, 12))
	n, ok, err := c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, cache.LikeCountTTL, mr.TTL("likes:count:7"))

	mr.FastForward(cache.LikeCountTTL + time.Second)
	_, ok, err = c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLikeCount_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)

	require.NoError(t, c.SetLikeCount(ctx, 1, 3))
	require.NoError(t, c.SetLikeCount(ctx, 2, 4))
	require.NoError(t, c.InvalidateLikeCounts(ctx, 1, 2))
	require.NoError(t, c.InvalidateLikeCounts(ctx))

	for _, id := range []uint64{1, 2} {
		_, ok, err := c.GetLikeCount(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestLikeCount_GarbageIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, mr.Set("likes:count:9", "not-a-number"))
	_, ok, err := c.GetLikeCount(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}
