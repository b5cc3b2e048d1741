package model

import (
	"time"
)

// MetricsSnapshot 每日业务指标快照，由定时任务写入，供管理后台查看趋势
type MetricsSnapshot struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SnapshotDate   time.Time `gorm:"not null;uniqueIndex" json:"snapshot_date"`
	ActiveCount    int64     `json:"active_count"`
	PausedCount    int64     `json:"paused_count"`
	CancelledCount int64     `json:"cancelled_count"`
	MonthlyRevenue float64   `gorm:"type:decimal(14,2)" json:"monthly_revenue"`
	CreatedAt      time.Time `json:"created_at"`
}

func (MetricsSnapshot) TableName() string {
	return "metrics_snapshots"
}
