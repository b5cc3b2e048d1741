package retry

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
	"syscall"
	"time"
)

// Do 执行 fn，暂时性错误按指数退避重试。
// attempts 为总尝试次数（含首次），退避从 baseDelay 开始每次翻倍。
// 非暂时性错误（业务校验失败等）立即返回，不重试。
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := baseDelay << (attempt - 1)
			log.Printf("Retry %d/%d after %v: %v", attempt, attempts-1, backoff, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// IsTransient 判断错误是否为暂时性存储错误（超时、连接中断等）
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// 驱动层只暴露文本的常见瞬时错误
	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"connection reset",
		"connection refused",
		"broken pipe",
		"i/o timeout",
		"invalid connection",
		"driver: bad connection",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}
