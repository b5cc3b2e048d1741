package repository

import (
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本，供多写操作组合使用
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

// Transaction 在单个数据库事务中执行 fn。
// fn 内通过各仓库的 WithTx 组合跨表写入。
func (r *SubscriptionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByIDWithPlan(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("Plan").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

// UpdateStatusIf 条件更新状态（compare-and-swap）。
// 只有当前状态等于 from 时才写入 to，返回是否真的更新了。
// 并发的两次 pause/cancel 只会有一次成功。
func (r *SubscriptionRepository) UpdateStatusIf(id int64, from, to string) (bool, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUserID 获取用户的全部订阅（含已取消）
func (r *SubscriptionRepository) ListByUserID(userID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("Plan").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// ListAll 管理端分页查询
func (r *SubscriptionRepository) ListAll(page, pageSize int, status string) ([]*model.Subscription, int64, error) {
	var subs []*model.Subscription
	var total int64

	query := r.db.Model(&model.Subscription{}).Preload("User").Preload("Plan")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

func (r *SubscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *SubscriptionRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Count(&count).Error
	return count, err
}

// SumActiveRevenue 统计 active 订阅的月度金额合计
func (r *SubscriptionRepository) SumActiveRevenue() (float64, error) {
	var total float64
	err := r.db.Model(&model.Subscription{}).
		Where("status = ?", model.StatusActive).
		Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error
	return total, err
}

// ReplaceMealTypes 整体替换订阅的餐别集合（先删后插）
func (r *SubscriptionRepository) ReplaceMealTypes(subscriptionID int64, mealTypes []string) error {
	if err := r.db.Where("subscription_id = ?", subscriptionID).
		Delete(&model.SubscriptionMealType{}).Error; err != nil {
		return err
	}

	rows := make([]model.SubscriptionMealType, 0, len(mealTypes))
	for _, mt := range mealTypes {
		rows = append(rows, model.SubscriptionMealType{
			SubscriptionID: subscriptionID,
			MealType:       mt,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *SubscriptionRepository) GetMealTypes(subscriptionID int64) ([]string, error) {
	var rows []model.SubscriptionMealType
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	mealTypes := make([]string, 0, len(rows))
	for _, row := range rows {
		mealTypes = append(mealTypes, row.MealType)
	}
	return mealTypes, nil
}

// ReplaceDeliveryDays 整体替换配送日（先删后插），从不做局部更新
func (r *SubscriptionRepository) ReplaceDeliveryDays(subscriptionID int64, weekdays []int) error {
	if err := r.db.Where("subscription_id = ?", subscriptionID).
		Delete(&model.DeliveryDay{}).Error; err != nil {
		return err
	}

	rows := make([]model.DeliveryDay, 0, len(weekdays))
	for _, day := range weekdays {
		rows = append(rows, model.DeliveryDay{
			SubscriptionID: subscriptionID,
			Weekday:        day,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *SubscriptionRepository) GetDeliveryDays(subscriptionID int64) ([]int, error) {
	var rows []model.DeliveryDay
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("weekday ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	days := make([]int, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.Weekday)
	}
	return days, nil
}
