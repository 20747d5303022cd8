package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	l := NewMemoryLimiter(2, time.Minute)
	defer l.Stop()
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "org:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, _ := l.Allow(ctx, "org:1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "org:2")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "org:1")
	assert.True(t, ok)
}

func TestMemoryLimiterDisabled(t *testing.T) {
	l := NewMemoryLimiter(0, time.Minute)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(context.Background(), "org:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedisLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(rdb, "ratelimit:ai", 3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "org:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "org:1")
	require.NoError(t, err)
	assert.False(t, ok)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, mr.TTL(keys[0]) > 0)

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "org:1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimitersWithoutWindowAllowEverything(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()

	memory := NewMemoryLimiter(1, 0)
	defer memory.Stop()

	limiters := map[string]Limiter{
		"memory": memory,
		"redis":  NewRedisLimiter(rdb, "ratelimit:ai", 1, 0),
	}
	for name, l := range limiters {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				ok, err := l.Allow(ctx, "org:1")
				require.NoError(t, err)
				assert.True(t, ok)
			}
		})
	}
	assert.Empty(t, mr.Keys())
}

func TestRedisLimiterConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	l := NewRedisLimiter(rdb, "ratelimit:ai", 3, time.Minute)
	_, err = l.Allow(context.Background(), "org:1")
	assert.Error(t, err)
}

func TestNewRedisClientInvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
