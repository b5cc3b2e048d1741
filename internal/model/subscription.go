package model

import (
	"time"
)

// 订阅状态。cancelled 为终态，不允许再流转。
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
)

// 餐别代码
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
)

// ValidMealTypes 合法的餐别集合
var ValidMealTypes = map[string]bool{
	MealTypeBreakfast: true,
	MealTypeLunch:     true,
	MealTypeDinner:    true,
}

// WeekdayCodes 星期名 → 代码（0=周日 ... 6=周六）
var WeekdayCodes = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// WeekdayNames 代码 → 星期名
var WeekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

type Subscription struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`
	PlanID int64 `gorm:"not null;index" json:"plan_id"`
	// MealType 旧版单值餐别字段，保留兼容（取所选餐别中的第一个）。
	// 完整的餐别集合在 subscription_meal_types 表。
	MealType   string    `gorm:"size:20;not null" json:"meal_type"`
	TotalPrice float64   `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Allergies  string    `gorm:"type:text" json:"allergies"`
	Status     string    `gorm:"size:20;default:active;index" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Plan *MealPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionMealType 订阅包含的餐别，编辑时整体替换
type SubscriptionMealType struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	SubscriptionID int64  `gorm:"not null;index" json:"subscription_id"`
	MealType       string `gorm:"size:20;not null" json:"meal_type"`
}

func (SubscriptionMealType) TableName() string {
	return "subscription_meal_types"
}
