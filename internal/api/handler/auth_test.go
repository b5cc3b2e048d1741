package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/repository"
	"github.com/greenplate/mealsub_go_server/internal/service"
	"github.com/greenplate/mealsub_go_server/internal/testutil"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	jwtCfg := &config.JWTConfig{Secret: "handler-test-secret", ExpireHours: 24}
	authService := service.NewAuthService(repository.NewUserRepository(db), jwtCfg, nil, nil, nil)
	h := NewAuthHandler(authService)

	router := gin.New()
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	return router
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	router := setupAuthRouter(t)

	w := performRequest(router, "POST", "/api/v1/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code, "body: %s", w.Body.String())

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	w = performRequest(router, "POST", "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Register_Invalid(t *testing.T) {
	router := setupAuthRouter(t)

	t.Run("密码太短", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/auth/register", gin.H{
			"username": "bob",
			"email":    "bob@example.com",
			"password": "short",
		})
		assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
	})

	t.Run("邮箱格式错误", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/auth/register", gin.H{
			"username": "bob",
			"email":    "not-an-email",
			"password": "password123",
		})
		assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
	})

	t.Run("重复注册", func(t *testing.T) {
		body := gin.H{
			"username": "carol",
			"email":    "carol@example.com",
			"password": "password123",
		}
		w := performRequest(router, "POST", "/api/v1/auth/register", body)
		require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

		w = performRequest(router, "POST", "/api/v1/auth/register", body)
		assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
	})
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	router := setupAuthRouter(t)

	performRequest(router, "POST", "/api/v1/auth/register", gin.H{
		"username": "dave",
		"email":    "dave@example.com",
		"password": "password123",
	})

	w := performRequest(router, "POST", "/api/v1/auth/login", gin.H{
		"email":    "dave@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, response.CodeAuthFailed, parseResponse(t, w).Code)
}
