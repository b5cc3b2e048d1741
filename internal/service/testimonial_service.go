package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/oss"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type TestimonialService struct {
	testimonialRepo *repository.TestimonialRepository
	ossClient       *oss.Client
	maxImageSize    int64
}

func NewTestimonialService(testimonialRepo *repository.TestimonialRepository, ossClient *oss.Client, maxImageSize int64) *TestimonialService {
	return &TestimonialService{
		testimonialRepo: testimonialRepo,
		ossClient:       ossClient,
		maxImageSize:    maxImageSize,
	}
}

// Create 发表评价
func (s *TestimonialService) Create(userID int64, req *dto.CreateTestimonialRequest) (*dto.TestimonialItem, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	testimonial := &model.Testimonial{
		UserID:   userID,
		Content:  req.Content,
		Rating:   req.Rating,
		PhotoURL: req.PhotoURL,
	}

	if err := s.testimonialRepo.Create(testimonial); err != nil {
		return nil, err
	}

	return &dto.TestimonialItem{
		ID:        testimonial.ID,
		Content:   testimonial.Content,
		Rating:    testimonial.Rating,
		PhotoURL:  testimonial.PhotoURL,
		CreatedAt: testimonial.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UploadPhoto 上传评价配图到 OSS，返回外链
func (s *TestimonialService) UploadPhoto(userID int64, filename string, data []byte) (string, error) {
	ext, err := validateImageFile(filename, int64(len(data)), s.maxImageSize)
	if err != nil {
		return "", err
	}

	url, err := s.ossClient.UploadTestimonialPhoto(userID, data, ext)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return url, nil
}

// List 分页获取评价，最新的在前
func (s *TestimonialService) List(page, pageSize int) ([]*dto.TestimonialItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	testimonials, total, err := s.testimonialRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.TestimonialItem, 0, len(testimonials))
	for _, tm := range testimonials {
		item := &dto.TestimonialItem{
			ID:        tm.ID,
			Content:   tm.Content,
			Rating:    tm.Rating,
			PhotoURL:  tm.PhotoURL,
			CreatedAt: tm.CreatedAt.Format(time.RFC3339),
		}
		if tm.User != nil {
			item.Username = tm.User.Username
			item.AvatarURL = tm.User.AvatarURL
		}
		items = append(items, item)
	}
	return items, total, nil
}
