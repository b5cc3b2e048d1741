package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/pkg/csrf"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
)

const CSRFTokenHeader = "X-CSRF-Token"

// CSRF 写操作的 CSRF 校验中间件，必须挂在 Auth 之后。
// 只拦截会改状态的方法，令牌在有效期内可重复使用。
func CSRF(store *csrf.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		token := c.GetHeader(CSRFTokenHeader)
		if token == "" {
			response.CSRFError(c, "缺少 CSRF 令牌")
			c.Abort()
			return
		}

		valid, err := store.Validate(c.Request.Context(), userID, token)
		if err != nil {
			response.ServerError(c, "服务器内部错误")
			c.Abort()
			return
		}
		if !valid {
			response.CSRFError(c, "CSRF 令牌无效或已过期")
			c.Abort()
			return
		}

		c.Next()
	}
}
