package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestLimiter_AllowWithinLimit(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(rdb, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}
}

func TestLimiter_DenyOverLimit(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(rdb, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
	}

	// 第 4 次请求超出窗口额度
	ok, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(rdb, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_WindowResets(t *testing.T) {
	rdb, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(rdb, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_Remaining(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(rdb, 5, time.Minute)
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)

	remaining, err = limiter.Remaining(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestNewLimiter_Defaults(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(rdb, 0, 0)
	assert.Equal(t, 60, limiter.limit)
	assert.Equal(t, time.Minute, limiter.window)
}
