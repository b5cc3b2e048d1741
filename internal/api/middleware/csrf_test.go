package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplate/mealsub_go_server/internal/pkg/csrf"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
)

func setupCSRFRouter(t *testing.T) (*gin.Engine, *csrf.Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := csrf.NewStore(rdb, 30*time.Minute)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		// 模拟已通过认证
		c.Set(UserIDKey, int64(1))
	}, CSRF(store))
	router.POST("/write", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	router.GET("/read", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return router, store
}

func TestCSRF_ValidToken(t *testing.T) {
	router, store := setupCSRFRouter(t)

	token, err := store.Issue(context.Background(), 1)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/write", nil)
	req.Header.Set(CSRFTokenHeader, token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_TokenReusable(t *testing.T) {
	router, store := setupCSRFRouter(t)

	token, err := store.Issue(context.Background(), 1)
	require.NoError(t, err)

	// 同一令牌在有效期内可多次使用
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/write", nil)
		req.Header.Set(CSRFTokenHeader, token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCSRF_MissingToken(t *testing.T) {
	router, _ := setupCSRFRouter(t)

	req := httptest.NewRequest("POST", "/write", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeCSRFFailed, resp.Code)
}

func TestCSRF_InvalidToken(t *testing.T) {
	router, _ := setupCSRFRouter(t)

	req := httptest.NewRequest("POST", "/write", nil)
	req.Header.Set(CSRFTokenHeader, "bogus-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeCSRFFailed, resp.Code)
}

func TestCSRF_OtherUsersToken(t *testing.T) {
	router, store := setupCSRFRouter(t)

	// 令牌属于用户 2，请求方是用户 1
	token, err := store.Issue(context.Background(), 2)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/write", nil)
	req.Header.Set(CSRFTokenHeader, token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeCSRFFailed, resp.Code)
}

func TestCSRF_SafeMethodSkipped(t *testing.T) {
	router, _ := setupCSRFRouter(t)

	req := httptest.NewRequest("GET", "/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
