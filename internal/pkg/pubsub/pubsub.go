package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelSubscriptionEvents = "subscription_events"
)

// EventMessage 订阅生命周期事件，API 进程发布，
// 各实例订阅后转发给自己持有的 WebSocket 连接
type EventMessage struct {
	Type           string `json:"type"`
	UserID         int64  `json:"user_id"`
	SubscriptionID int64  `json:"subscription_id"`
	Event          string `json:"event"`
	Status         string `json:"status"`
	PausedUntil    string `json:"paused_until,omitempty"`
	Message        string `json:"message,omitempty"`
}

// 事件对应的提示文案
var EventMessages = map[string]string{
	"created":   "订阅创建成功",
	"updated":   "订阅已更新",
	"paused":    "订阅已暂停",
	"resumed":   "订阅已恢复",
	"cancelled": "订阅已取消",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEvent 发布订阅生命周期事件
func (p *Publisher) PublishEvent(ctx context.Context, msg *EventMessage) error {
	msg.Type = "subscription_event"

	// 自动填充提示文案
	if msg.Message == "" && msg.Event != "" {
		if text, ok := EventMessages[msg.Event]; ok {
			msg.Message = text
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event message: %w", err)
	}

	return p.client.Publish(ctx, ChannelSubscriptionEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅生命周期事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*EventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelSubscriptionEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var eventMsg EventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &eventMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&eventMsg)
		}
	}
}
