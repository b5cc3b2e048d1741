package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/email"
	"github.com/greenplate/mealsub_go_server/internal/pkg/jwt"
	"github.com/greenplate/mealsub_go_server/internal/pkg/oauth"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrOAuthState         = errors.New("invalid or expired oauth state")
)

type AuthService struct {
	userRepo   *repository.UserRepository
	jwtCfg     *config.JWTConfig
	google     *oauth.GoogleOAuth
	stateStore *oauth.StateStore
	mailer     *email.Service
}

func NewAuthService(
	userRepo *repository.UserRepository,
	jwtCfg *config.JWTConfig,
	google *oauth.GoogleOAuth,
	stateStore *oauth.StateStore,
	mailer *email.Service,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtCfg:     jwtCfg,
		google:     google,
		stateStore: stateStore,
		mailer:     mailer,
	}
}

// Register 邮箱注册。密码 bcrypt 加密存储，注册成功异步发欢迎邮件。
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(emailAddr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	user := &model.User{
		Username:     req.Username,
		Email:        &emailAddr,
		PasswordHash: &hashStr,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func() {
			if err := s.mailer.SendWelcome(emailAddr, user.Username); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", emailAddr, err)
			}
		}()
	}

	return s.issueToken(user)
}

// Login 邮箱密码登录。
// 用户不存在和密码错误返回同一个错误，不暴露账号是否注册过。
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Google 注册的账号没有密码
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GoogleAuthURL 生成 Google 授权跳转地址，state 写入 Redis 防 CSRF
func (s *AuthService) GoogleAuthURL(ctx context.Context, redirectURI string) (string, error) {
	state, err := s.stateStore.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback 处理 Google 回调：校验 state，换 token 取用户信息，
// 按 google_id 找到或创建本地账号后签发 JWT。
func (s *AuthService) GoogleCallback(ctx context.Context, code, state string) (*dto.AuthResponse, string, error) {
	redirectURI, err := s.stateStore.ValidateState(ctx, state)
	if err != nil {
		return nil, "", ErrOAuthState
	}

	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	gu, err := s.google.GetUser(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch google user: %w", err)
	}

	user, err := s.findOrCreateGoogleUser(gu)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return resp, redirectURI, nil
}

func (s *AuthService) findOrCreateGoogleUser(gu *oauth.GoogleUser) (*model.User, error) {
	user, err := s.userRepo.GetByGoogleID(gu.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 同邮箱的已有账号直接绑定 Google
	if gu.Email != "" {
		emailAddr := strings.ToLower(gu.Email)
		existing, err := s.userRepo.GetByEmail(emailAddr)
		if err == nil {
			existing.GoogleID = &gu.ID
			if existing.AvatarURL == "" {
				existing.AvatarURL = gu.AvatarURL
			}
			if err := s.userRepo.Update(existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user = &model.User{
		Username:  s.uniqueUsername(gu.Name),
		GoogleID:  &gu.ID,
		AvatarURL: gu.AvatarURL,
		Role:      model.RoleUser,
	}
	if gu.Email != "" {
		emailAddr := strings.ToLower(gu.Email)
		user.Email = &emailAddr
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// uniqueUsername 基于 Google 昵称生成不冲突的用户名
func (s *AuthService) uniqueUsername(name string) string {
	base := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if base == "" {
		base = "user"
	}
	if len(base) > 40 {
		base = base[:40]
	}

	candidate := base
	for i := 1; i <= 100; i++ {
		taken, err := s.userRepo.ExistsByUsername(candidate)
		if err != nil || !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	return candidate
}

func (s *AuthService) issueToken(user *model.User) (*dto.AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.jwtCfg.Secret, s.jwtCfg.ExpireHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  buildUserInfo(user),
	}, nil
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}
