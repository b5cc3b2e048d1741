package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/jwt"
	"github.com/greenplate/mealsub_go_server/internal/pkg/oauth"
	"github.com/greenplate/mealsub_go_server/internal/repository"
	"github.com/greenplate/mealsub_go_server/internal/testutil"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	jwtCfg := &config.JWTConfig{Secret: "test-secret", ExpireHours: 24}
	svc := NewAuthService(repository.NewUserRepository(db), jwtCfg, nil, nil, nil)
	return svc, db
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	// 邮箱归一化为小写
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, model.RoleUser, resp.User.Role)

	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("正确密码", func(t *testing.T) {
		resp, err := svc.Login(&dto.LoginRequest{Email: "bob@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "bob", resp.User.Username)
	})

	t.Run("错误密码", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{Email: "bob@example.com", Password: "wrongpass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("不存在的账号返回同样的错误", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Login_GoogleOnlyAccount(t *testing.T) {
	svc, db := newAuthService(t)

	googleID := "g-12345"
	email := "carol@example.com"
	require.NoError(t, db.Create(&model.User{
		Username: "carol",
		Email:    &email,
		GoogleID: &googleID,
		Role:     model.RoleUser,
	}).Error)

	// 没有密码的账号走密码登录直接失败
	_, err := svc.Login(&dto.LoginRequest{Email: email, Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_FindOrCreateGoogleUser(t *testing.T) {
	svc, db := newAuthService(t)

	t.Run("首次登录创建账号", func(t *testing.T) {
		user, err := svc.findOrCreateGoogleUser(&oauth.GoogleUser{
			ID:        "g-100",
			Email:     "Dave@Example.com",
			Name:      "Dave Smith",
			AvatarURL: "https://lh3.example.com/photo.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, "Dave_Smith", user.Username)
		require.NotNil(t, user.Email)
		assert.Equal(t, "dave@example.com", *user.Email)
		assert.Equal(t, "https://lh3.example.com/photo.jpg", user.AvatarURL)
	})

	t.Run("再次登录复用账号", func(t *testing.T) {
		first, err := svc.findOrCreateGoogleUser(&oauth.GoogleUser{ID: "g-200", Name: "Eve"})
		require.NoError(t, err)

		second, err := svc.findOrCreateGoogleUser(&oauth.GoogleUser{ID: "g-200", Name: "Eve"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("同邮箱的已有账号绑定 Google", func(t *testing.T) {
		existing := testutil.TestUser(t, db, testutil.WithEmail("frank@example.com"))

		user, err := svc.findOrCreateGoogleUser(&oauth.GoogleUser{
			ID:    "g-300",
			Email: "frank@example.com",
			Name:  "Frank",
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		require.NotNil(t, user.GoogleID)
		assert.Equal(t, "g-300", *user.GoogleID)
	})

	t.Run("用户名冲突时自动加后缀", func(t *testing.T) {
		testutil.TestUser(t, db, testutil.WithUsername("Grace"))

		user, err := svc.findOrCreateGoogleUser(&oauth.GoogleUser{ID: "g-400", Name: "Grace"})
		require.NoError(t, err)
		assert.Equal(t, "Grace_1", user.Username)
	})
}
