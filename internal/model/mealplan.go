package model

import (
	"time"
)

// MealPlan 套餐主数据，订阅生命周期只读
type MealPlan struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	PricePerMeal float64   `gorm:"type:decimal(10,2);not null" json:"price_per_meal"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}
