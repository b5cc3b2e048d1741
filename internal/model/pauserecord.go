package model

import (
	"time"
)

// PauseRecord 暂停台账。一个订阅可以有多条历史记录，
// paused 状态下最多一条处于打开状态（end_date 为空或在未来）。
type PauseRecord struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	SubscriptionID int64      `gorm:"not null;index" json:"subscription_id"`
	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"` // 空 = 无限期暂停
	CreatedAt      time.Time  `json:"created_at"`
}

func (PauseRecord) TableName() string {
	return "pause_records"
}

// IsOpen 判断记录在给定日期是否仍处于打开状态
func (p *PauseRecord) IsOpen(today time.Time) bool {
	return p.EndDate == nil || p.EndDate.After(today)
}
