package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplate/mealsub_go_server/internal/pkg/queue"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) SendSubscriptionEvent(to, username, event, planName string, totalPrice float64, pausedUntil string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+":"+event)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return queue.NewQueue(rdb, "test_notify_queue")
}

func TestNotifier_Process(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := NewNotifier(newTestQueue(t), mailer)

	err := notifier.Process(context.Background(), &queue.NotifyMessage{
		UserID:         1,
		SubscriptionID: 10,
		Event:          queue.EventPaused,
		Email:          "alice@example.com",
		Username:       "alice",
		PlanName:       "基础套餐",
		TotalPrice:     774000,
		PausedUntil:    "2026-09-15",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com:" + queue.EventPaused}, mailer.sent)
}

func TestNotifier_Process_NoEmail(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := NewNotifier(newTestQueue(t), mailer)

	// 没有邮箱的账号（纯 Google 登录且未授权邮箱）直接跳过
	err := notifier.Process(context.Background(), &queue.NotifyMessage{
		UserID: 1,
		Event:  queue.EventCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, mailer.sentCount())
}

func TestNotifier_Process_MailerError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("550 mailbox unavailable")}
	notifier := NewNotifier(newTestQueue(t), mailer)

	err := notifier.Process(context.Background(), &queue.NotifyMessage{
		Email: "bob@example.com",
		Event: queue.EventCancelled,
	})
	assert.Error(t, err)
}

func TestNotifier_Run(t *testing.T) {
	q := newTestQueue(t)
	mailer := &fakeMailer{}
	notifier := NewNotifier(q, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		notifier.Run(ctx, 1)
		close(done)
	}()

	require.NoError(t, q.Push(context.Background(), &queue.NotifyMessage{
		Email:          "carol@example.com",
		Event:          queue.EventResumed,
		SubscriptionID: 7,
	}))

	assert.Eventually(t, func() bool {
		return mailer.sentCount() == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(6 * time.Second):
		t.Fatal("worker did not shut down")
	}
}
