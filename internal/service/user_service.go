package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/oss"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image exceeds size limit")
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type UserService struct {
	userRepo     *repository.UserRepository
	ossClient    *oss.Client
	maxImageSize int64
}

func NewUserService(userRepo *repository.UserRepository, ossClient *oss.Client, maxImageSize int64) *UserService {
	return &UserService{
		userRepo:     userRepo,
		ossClient:    ossClient,
		maxImageSize: maxImageSize,
	}
}

// GetProfile 获取个人资料
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdateProfile 修改个人资料，目前只开放用户名
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UploadAvatar 上传头像到 OSS 并更新资料
func (s *UserService) UploadAvatar(userID int64, filename string, data []byte) (string, error) {
	ext, err := validateImageFile(filename, int64(len(data)), s.maxImageSize)
	if err != nil {
		return "", err
	}

	url, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

// validateImageFile 校验上传图片的扩展名和大小，返回归一化的扩展名
func validateImageFile(filename string, size, maxSize int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", ErrUnsupportedImageType
	}
	if maxSize > 0 && size > maxSize {
		return "", ErrImageTooLarge
	}
	return ext, nil
}
