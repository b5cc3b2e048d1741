package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/api/middleware"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Create 创建订阅
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	detail, err := h.subscriptionService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅已创建", detail)
}

// List 我的订阅列表
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.subscriptionService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Get 订阅详情
// GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	detail, err := h.subscriptionService.Get(userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, detail)
}

// Update 编辑订阅
// PUT /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	detail, err := h.subscriptionService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅已更新", detail)
}

// Pause 暂停订阅
// POST /api/v1/subscriptions/:id/pause
func (h *SubscriptionHandler) Pause(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.PauseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.subscriptionService.Pause(c.Request.Context(), userID, id, &req); err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅已暂停", nil)
}

// Resume 恢复订阅
// POST /api/v1/subscriptions/:id/resume
func (h *SubscriptionHandler) Resume(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Resume(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅已恢复", nil)
}

// Cancel 取消订阅
// POST /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅已取消", nil)
}

func (h *SubscriptionHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅 ID")
		return 0, false
	}
	return id, true
}

// writeError 把服务层错误映射为响应码
func (h *SubscriptionHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrPlanNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNoMealTypes),
		errors.Is(err, service.ErrInvalidMealType),
		errors.Is(err, service.ErrNoDeliveryDays),
		errors.Is(err, service.ErrInvalidDeliveryDay),
		errors.Is(err, service.ErrPriceMismatch),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrPauseStartNotFuture),
		errors.Is(err, service.ErrPauseEndBeforeStart):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrNotActive),
		errors.Is(err, service.ErrNotPaused),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrEditCancelled),
		errors.Is(err, service.ErrPausePending),
		errors.Is(err, service.ErrStatusConflict):
		response.ConflictError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
