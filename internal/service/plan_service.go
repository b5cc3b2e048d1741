package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// List 获取所有可订的套餐
func (s *PlanService) List() ([]*dto.PlanInfo, error) {
	plans, err := s.planRepo.ListActive()
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.PlanInfo, 0, len(plans))
	for _, plan := range plans {
		infos = append(infos, &dto.PlanInfo{
			ID:           plan.ID,
			Name:         plan.Name,
			Description:  plan.Description,
			PricePerMeal: plan.PricePerMeal,
		})
	}
	return infos, nil
}

// Get 获取单个套餐详情
func (s *PlanService) Get(id int64) (*dto.PlanInfo, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &dto.PlanInfo{
		ID:           plan.ID,
		Name:         plan.Name,
		Description:  plan.Description,
		PricePerMeal: plan.PricePerMeal,
	}, nil
}
