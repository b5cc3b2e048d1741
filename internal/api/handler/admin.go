package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Stats 实时汇总指标
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, stats)
}

// ListSubscriptions 订阅列表
// GET /api/v1/admin/subscriptions?page=1&page_size=20&status=active
func (h *AdminHandler) ListSubscriptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := c.Query("status")

	items, total, err := h.adminService.ListSubscriptions(page, pageSize, status)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Snapshots 指标快照趋势
// GET /api/v1/admin/snapshots?days=30
func (h *AdminHandler) Snapshots(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	items, err := h.adminService.ListSnapshots(days)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
