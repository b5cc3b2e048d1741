package dto

// AdminStats 管理后台汇总指标
type AdminStats struct {
	TotalUsers         int64   `json:"total_users"`
	TotalSubscriptions int64   `json:"total_subscriptions"`
	ActiveCount        int64   `json:"active_count"`
	PausedCount        int64   `json:"paused_count"`
	CancelledCount     int64   `json:"cancelled_count"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
	TestimonialCount   int64   `json:"testimonial_count"`
}

type AdminSubscriptionItem struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	PlanName   string  `json:"plan_name"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

type SnapshotItem struct {
	SnapshotDate   string  `json:"snapshot_date"`
	ActiveCount    int64   `json:"active_count"`
	PausedCount    int64   `json:"paused_count"`
	CancelledCount int64   `json:"cancelled_count"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}
