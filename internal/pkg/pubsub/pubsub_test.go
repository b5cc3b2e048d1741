package pubsub

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

func TestPublishAndSubscribe(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *EventMessage, 1)
	go func() {
		_ = subscriber.Subscribe(ctx, func(msg *EventMessage) {
			received <- msg
		})
	}()

	// 等待订阅建立
	time.Sleep(50 * time.Millisecond)

	err := publisher.PublishEvent(ctx, &EventMessage{
		UserID:         1,
		SubscriptionID: 42,
		Event:          "paused",
		Status:         "paused",
		PausedUntil:    "2026-09-15",
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "subscription_event", msg.Type)
		assert.Equal(t, int64(42), msg.SubscriptionID)
		assert.Equal(t, "paused", msg.Event)
		assert.Equal(t, EventMessages["paused"], msg.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive published event")
	}
}

func TestPublishEvent_KeepsCustomMessage(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client)

	err := publisher.PublishEvent(context.Background(), &EventMessage{
		UserID:  1,
		Event:   "cancelled",
		Message: "自定义文案",
	})
	require.NoError(t, err)
}

func TestSubscribe_StopsOnContextCancel(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*EventMessage) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after context cancel")
	}
}
