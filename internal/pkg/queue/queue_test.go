package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
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

	return client, cleanup
}

func TestQueue_PushAndLength(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "notify_queue")
	ctx := context.Background()

	msg := &NotifyMessage{
		UserID:         10,
		SubscriptionID: 100,
		Event:          EventPaused,
		Email:          "user@example.com",
		Username:       "tester",
		PlanName:       "轻食套餐",
		TotalPrice:     774000,
		PausedUntil:    "2026-09-15",
	}

	err := q.Push(ctx, msg)
	require.NoError(t, err)

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}

func TestQueue_PopReturnsMessage(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "notify_queue")
	ctx := context.Background()

	pushed := &NotifyMessage{
		UserID:         7,
		SubscriptionID: 77,
		Event:          EventCreated,
		Email:          "new@example.com",
		Username:       "newbie",
		PlanName:       "家庭套餐",
		TotalPrice:     1032000,
	}
	require.NoError(t, q.Push(ctx, pushed))

	popped, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, popped)
	assert.Equal(t, pushed.SubscriptionID, popped.SubscriptionID)
	assert.Equal(t, pushed.Event, popped.Event)
	assert.Equal(t, pushed.Email, popped.Email)
	assert.Equal(t, pushed.TotalPrice, popped.TotalPrice)
}

func TestQueue_FIFOOrder(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "notify_queue")
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Push(ctx, &NotifyMessage{SubscriptionID: i, Event: EventUpdated}))
	}

	for i := int64(1); i <= 3; i++ {
		msg, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, i, msg.SubscriptionID)
	}
}

func TestQueue_PopEmptyTimesOut(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "notify_queue")

	msg, err := q.Pop(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
