package oauth

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

func TestStateStore_GenerateState(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)

	state, err := store.GenerateState(context.Background(), "http://localhost:3000")
	require.NoError(t, err)
	assert.Len(t, state, 64) // 32 bytes = 64 hex chars
}

func TestStateStore_ValidateState_Success(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "http://localhost:3000/callback")
	require.NoError(t, err)

	redirectURI, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/callback", redirectURI)
}

func TestStateStore_ValidateState_Consumed(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "http://localhost:3000")
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	require.NoError(t, err)

	// 二次使用应失败（防重放）
	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}

func TestStateStore_ValidateState_Empty(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)

	_, err := store.ValidateState(context.Background(), "")
	assert.Error(t, err)
}

func TestStateStore_ValidateState_Expired(t *testing.T) {
	rdb, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "http://localhost:3000")
	require.NoError(t, err)

	mr.FastForward(11 * time.Minute)

	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}
