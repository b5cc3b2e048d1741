package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/internal/pkg/response"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// List 套餐列表
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, plans)
}

// Get 套餐详情
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的套餐 ID")
		return
	}

	plan, err := h.planService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, plan)
}
