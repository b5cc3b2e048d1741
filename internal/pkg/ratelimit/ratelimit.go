package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const counterKeyPrefix = "ratelimit:"

// Limiter 固定窗口计数限流器。计数器放在 Redis 中，
// 多实例部署时共享同一份额度，进程内不保留任何状态。
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

// Allow 判断 key（用户 ID 或客户端 IP）在当前窗口内是否还有额度
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	counterKey := counterKeyPrefix + key

	count, err := l.rdb.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	// 第一次计数时设置窗口过期
	if count == 1 {
		if err := l.rdb.Expire(ctx, counterKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate window: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

// Remaining 返回当前窗口剩余额度
func (l *Limiter) Remaining(ctx context.Context, key string) (int, error) {
	count, err := l.rdb.Get(ctx, counterKeyPrefix+key).Int64()
	if err == redis.Nil {
		return l.limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read rate counter: %w", err)
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
