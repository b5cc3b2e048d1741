package middleware

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/pkg/ratelimit"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
)

// RateLimit 接口限流中间件。已登录用户按用户计数，匿名请求按客户端 IP。
// Redis 不可用时放行，限流不能变成单点故障。
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = fmt.Sprintf("user:%d", userID)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		if !allowed {
			response.RateLimitError(c, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
