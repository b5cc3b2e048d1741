package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/api/middleware"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/csrf"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	csrfStore   *csrf.Store
}

func NewUserHandler(userService *service.UserService, csrfStore *csrf.Store) *UserHandler {
	return &UserHandler{
		userService: userService,
		csrfStore:   csrfStore,
	}
}

// GetProfile 获取个人资料
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// UpdateProfile 修改个人资料
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUsernameTaken):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "资料已更新", info)
}

// UploadAvatar 上传头像
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.ParamError(c, "请上传头像文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	avatarURL, err := h.userService.UploadAvatar(userID, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImageType),
			errors.Is(err, service.ErrImageTooLarge):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "头像已更新", gin.H{"avatar_url": avatarURL})
}

// GetCSRFToken 签发 CSRF 令牌
// GET /api/v1/user/csrf-token
func (h *UserHandler) GetCSRFToken(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	token, err := h.csrfStore.Issue(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, &dto.CSRFTokenResponse{Token: token})
}
