package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 订阅生命周期事件
const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventPaused    = "paused"
	EventResumed   = "resumed"
	EventCancelled = "cancelled"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// NotifyMessage 通知任务，由 API 进程入队、worker 进程消费发邮件
type NotifyMessage struct {
	UserID         int64   `json:"user_id"`
	SubscriptionID int64   `json:"subscription_id"`
	Event          string  `json:"event"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	PlanName       string  `json:"plan_name"`
	TotalPrice     float64 `json:"total_price"`
	PausedUntil    string  `json:"paused_until,omitempty"`
	OccurredAt     string  `json:"occurred_at"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将通知任务加入队列
func (q *Queue) Push(ctx context.Context, msg *NotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取任务（阻塞）
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*NotifyMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无任务
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg NotifyMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
