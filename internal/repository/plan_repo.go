package repository

import (
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.MealPlan) error {
	return r.db.Create(plan).Error
}

// GetByID 按 id 查询可用套餐
func (r *PlanRepository) GetByID(id int64) (*model.MealPlan, error) {
	var plan model.MealPlan
	err := r.db.Where("id = ? AND active = ?", id, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActive 获取所有可用套餐
func (r *PlanRepository) ListActive() ([]*model.MealPlan, error) {
	var plans []*model.MealPlan
	err := r.db.Where("active = ?", true).Order("price_per_meal ASC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
