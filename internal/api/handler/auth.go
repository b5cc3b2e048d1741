package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrUsernameTaken):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "注册成功", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}

// GoogleLogin 跳转到 Google 授权页
// GET /api/v1/auth/google?redirect_uri=xxx
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")

	authURL, err := h.authService.GoogleAuthURL(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback Google 授权回调
// GET /api/v1/auth/google/callback?code=xxx&state=xxx
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.ParamError(c, "缺少 code 或 state 参数")
		return
	}

	resp, redirectURI, err := h.authService.GoogleCallback(c.Request.Context(), code, state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOAuthState):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	// 带 redirect_uri 时把 token 交回前端页面
	if redirectURI != "" {
		c.Redirect(http.StatusTemporaryRedirect,
			fmt.Sprintf("%s?token=%s", redirectURI, url.QueryEscape(resp.Token)))
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}
