package worker

import (
	"context"
	"log"
	"time"

	"github.com/greenplate/mealsub_go_server/internal/pkg/email"
	"github.com/greenplate/mealsub_go_server/internal/pkg/queue"
	"github.com/greenplate/mealsub_go_server/internal/pkg/retry"
)

// mailSender 收敛 worker 用到的邮件接口，方便测试替换
type mailSender interface {
	SendSubscriptionEvent(to, username, event, planName string, totalPrice float64, pausedUntil string) error
}

// Notifier 消费通知队列，把订阅生命周期事件发成邮件
type Notifier struct {
	queue  *queue.Queue
	mailer mailSender
}

func NewNotifier(q *queue.Queue, mailer mailSender) *Notifier {
	return &Notifier{
		queue:  q,
		mailer: mailer,
	}
}

// Run 消费循环，ctx 取消后退出
func (n *Notifier) Run(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			msg, err := n.queue.Pop(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("Worker %d: failed to pop message: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}
			if msg == nil {
				continue
			}

			if err := n.Process(ctx, msg); err != nil {
				log.Printf("Worker %d: failed to notify subscription %d (%s): %v",
					workerID, msg.SubscriptionID, msg.Event, err)
			}
		}
	}
}

// Process 处理单条通知消息。SMTP 抖动时重试，最终失败只记日志丢弃，
// 通知邮件不值得无限重投。
func (n *Notifier) Process(ctx context.Context, msg *queue.NotifyMessage) error {
	if msg.Email == "" {
		return nil
	}

	err := retry.Do(ctx, 3, 500*time.Millisecond, func() error {
		return n.mailer.SendSubscriptionEvent(
			msg.Email, msg.Username, msg.Event, msg.PlanName, msg.TotalPrice, msg.PausedUntil)
	})
	if err != nil {
		return err
	}

	log.Printf("Notified %s about subscription %d (%s)", msg.Email, msg.SubscriptionID, msg.Event)
	return nil
}

var _ mailSender = (*email.Service)(nil)
