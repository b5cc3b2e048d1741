package csrf

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	tokenKeyPrefix  = "csrf:token:"
	defaultTokenTTL = 2 * time.Hour
)

// Store 防伪令牌存储。令牌按用户隔离存放在 Redis 中，
// 同一用户可以持有多个有效令牌（多标签页场景），过期由 TTL 控制。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore 创建令牌存储，ttl <= 0 时使用默认有效期
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Issue 为用户签发一个新令牌
func (s *Store) Issue(ctx context.Context, userID int64) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	token := hex.EncodeToString(bytes)

	key := s.key(userID, token)
	if err := s.rdb.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store csrf token: %w", err)
	}

	return token, nil
}

// Validate 校验令牌是否属于该用户且未过期。
// 令牌不在校验时消费，同一令牌在有效期内可重复使用。
func (s *Store) Validate(ctx context.Context, userID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	n, err := s.rdb.Exists(ctx, s.key(userID, token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check csrf token: %w", err)
	}

	return n > 0, nil
}

// Revoke 撤销单个令牌（登出等场景）
func (s *Store) Revoke(ctx context.Context, userID int64, token string) error {
	return s.rdb.Del(ctx, s.key(userID, token)).Err()
}

func (s *Store) key(userID int64, token string) string {
	return fmt.Sprintf("%s%d:%s", tokenKeyPrefix, userID, token)
}
