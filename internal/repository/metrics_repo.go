package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
)

type MetricsRepository struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) Create(snapshot *model.MetricsSnapshot) error {
	return r.db.Create(snapshot).Error
}

// GetByDate 按日期查询快照，不存在时返回 (nil, nil)
func (r *MetricsRepository) GetByDate(date time.Time) (*model.MetricsSnapshot, error) {
	var snapshot model.MetricsSnapshot
	err := r.db.Where("snapshot_date = ?", date).First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// ListRecent 获取最近 limit 天的快照，新的在前
func (r *MetricsRepository) ListRecent(limit int) ([]*model.MetricsSnapshot, error) {
	var snapshots []*model.MetricsSnapshot
	err := r.db.Order("snapshot_date DESC").Limit(limit).Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
