package model

// DeliveryDay 配送日，编辑时先删后插整体替换，不做局部更新
type DeliveryDay struct {
	ID             int64 `gorm:"primaryKey" json:"id"`
	SubscriptionID int64 `gorm:"not null;index" json:"subscription_id"`
	Weekday        int   `gorm:"not null" json:"weekday"` // 0=周日 ... 6=周六
}

func (DeliveryDay) TableName() string {
	return "delivery_days"
}
