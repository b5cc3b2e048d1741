package dto

// CreateSubscriptionRequest 创建订阅请求。total_price 为前端按同样公式
// 计算出的月度金额，服务端重新计算并校验（容差 1 元）。
type CreateSubscriptionRequest struct {
	PlanID       int64    `json:"plan_id" binding:"required"`
	MealTypes    []string `json:"meal_types" binding:"required"`
	DeliveryDays []string `json:"delivery_days" binding:"required"`
	Allergies    string   `json:"allergies"`
	TotalPrice   float64  `json:"total_price" binding:"required"`
}

// UpdateSubscriptionRequest 编辑订阅请求，与创建同构：
// 餐别与配送日都是整体替换语义。
type UpdateSubscriptionRequest struct {
	PlanID       int64    `json:"plan_id" binding:"required"`
	MealTypes    []string `json:"meal_types" binding:"required"`
	DeliveryDays []string `json:"delivery_days" binding:"required"`
	Allergies    string   `json:"allergies"`
	TotalPrice   float64  `json:"total_price" binding:"required"`
}

// PauseSubscriptionRequest 暂停请求，日期格式 2006-01-02。
// start_date 必须晚于今天；end_date 为空表示无限期暂停。
type PauseSubscriptionRequest struct {
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   *string `json:"end_date,omitempty"`
}

type SubscriptionDetail struct {
	ID           int64    `json:"id"`
	PlanID       int64    `json:"plan_id"`
	PlanName     string   `json:"plan_name"`
	PricePerMeal float64  `json:"price_per_meal"`
	MealTypes    []string `json:"meal_types"`
	DeliveryDays []string `json:"delivery_days"`
	Allergies    string   `json:"allergies,omitempty"`
	TotalPrice   float64  `json:"total_price"`
	Status       string   `json:"status"`
	Paused       bool     `json:"paused"`
	PausedUntil  string   `json:"paused_until,omitempty"` // 空 = 无限期
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type SubscriptionListItem struct {
	ID          int64   `json:"id"`
	PlanID      int64   `json:"plan_id"`
	PlanName    string  `json:"plan_name"`
	TotalPrice  float64 `json:"total_price"`
	Status      string  `json:"status"`
	Paused      bool    `json:"paused"`
	PausedUntil string  `json:"paused_until,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
