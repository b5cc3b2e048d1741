package service

import (
	"context"
	"log"
	"time"

	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/pkg/pubsub"
	"github.com/greenplate/mealsub_go_server/internal/pkg/queue"
)

// SubscriptionNotifier 生命周期事件通知：
// 入队邮件任务（worker 消费）+ 发布 Redis 事件（WebSocket 推送）。
// 通知是尽力而为的，失败只记日志，不影响主操作。
type SubscriptionNotifier struct {
	queue     *queue.Queue
	publisher *pubsub.Publisher
}

func NewSubscriptionNotifier(q *queue.Queue, publisher *pubsub.Publisher) *SubscriptionNotifier {
	return &SubscriptionNotifier{
		queue:     q,
		publisher: publisher,
	}
}

// NotifyEvent 发送订阅生命周期通知
func (n *SubscriptionNotifier) NotifyEvent(ctx context.Context, user *model.User, sub *model.Subscription, planName, event string, pausedUntil *time.Time) {
	if n == nil {
		return
	}

	until := ""
	if pausedUntil != nil {
		until = pausedUntil.Format("2006-01-02")
	}

	if n.queue != nil && user.Email != nil {
		msg := &queue.NotifyMessage{
			UserID:         user.ID,
			SubscriptionID: sub.ID,
			Event:          event,
			Email:          *user.Email,
			Username:       user.Username,
			PlanName:       planName,
			TotalPrice:     sub.TotalPrice,
			PausedUntil:    until,
			OccurredAt:     time.Now().Format(time.RFC3339),
		}
		if err := n.queue.Push(ctx, msg); err != nil {
			log.Printf("Failed to enqueue notify message for subscription %d: %v", sub.ID, err)
		}
	}

	if n.publisher != nil {
		msg := &pubsub.EventMessage{
			UserID:         user.ID,
			SubscriptionID: sub.ID,
			Event:          event,
			Status:         sub.Status,
			PausedUntil:    until,
		}
		if err := n.publisher.PublishEvent(ctx, msg); err != nil {
			log.Printf("Failed to publish event for subscription %d: %v", sub.ID, err)
		}
	}
}
