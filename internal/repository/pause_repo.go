package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
)

type PauseRepository struct {
	db *gorm.DB
}

func NewPauseRepository(db *gorm.DB) *PauseRepository {
	return &PauseRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *PauseRepository) WithTx(tx *gorm.DB) *PauseRepository {
	return &PauseRepository{db: tx}
}

func (r *PauseRepository) Create(record *model.PauseRecord) error {
	return r.db.Create(record).Error
}

func (r *PauseRepository) Update(record *model.PauseRecord) error {
	return r.db.Save(record).Error
}

// GetLatest 获取订阅最近插入的暂停记录（按 id 倒序，不区分是否已关闭）。
// 没有记录时返回 (nil, nil)。
func (r *PauseRepository) GetLatest(subscriptionID int64) (*model.PauseRecord, error) {
	var record model.PauseRecord
	err := r.db.Where("subscription_id = ?", subscriptionID).
		Order("id DESC").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// HasOpen 判断订阅是否存在打开状态的暂停记录
// （end_date 为空，或 end_date 在 today 之后）
func (r *PauseRepository) HasOpen(subscriptionID int64, today time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.PauseRecord{}).
		Where("subscription_id = ? AND (end_date IS NULL OR end_date > ?)", subscriptionID, today).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBySubscriptionID 获取订阅的全部暂停历史
func (r *PauseRepository) ListBySubscriptionID(subscriptionID int64) ([]*model.PauseRecord, error) {
	var records []*model.PauseRecord
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
