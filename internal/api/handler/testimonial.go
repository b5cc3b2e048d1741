package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/api/middleware"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

type TestimonialHandler struct {
	testimonialService *service.TestimonialService
}

func NewTestimonialHandler(testimonialService *service.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{
		testimonialService: testimonialService,
	}
}

// Create 发表评价
// POST /api/v1/testimonials
func (h *TestimonialHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.testimonialService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "感谢你的评价", item)
}

// UploadPhoto 上传评价配图
// POST /api/v1/testimonials/photo
func (h *TestimonialHandler) UploadPhoto(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.ParamError(c, "请上传图片文件")
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

	photoURL, err := h.testimonialService.UploadPhoto(userID, fileHeader.Filename, data)
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

	response.Success(c, gin.H{"photo_url": photoURL})
}

// List 评价列表（公开）
// GET /api/v1/testimonials?page=1&page_size=10
func (h *TestimonialHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	items, total, err := h.testimonialService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
