package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	c := NewInMemoryCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "status", "healthy")
	v, ok := c.Get(ctx, "status")
	assert.True(t, ok)
	assert.Equal(t, "healthy", v)

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "status")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.deleteExpired()
	assert.Equal(t, 0, c.Len())
}

func TestInMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute, 0)

	c.Set(ctx, "k", 1)
	c.Delete(ctx, "k")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestInMemoryCacheCleanupLoop(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Millisecond, 5*time.Millisecond)
	c.StartCleanup(ctx)
	defer c.StopCleanup()

	c.Set(ctx, "k", 1)
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	c.StopCleanup()
}
