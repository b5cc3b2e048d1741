package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/api/middleware"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/repository"
	"github.com/greenplate/mealsub_go_server/internal/service"
	"github.com/greenplate/mealsub_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockAuth 绕过 JWT 校验，直接把用户 ID 注入上下文
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newSubscriptionService(t *testing.T) (*service.SubscriptionService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	svc := service.NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewPauseRepository(db),
		repository.NewPlanRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	return svc, db
}
