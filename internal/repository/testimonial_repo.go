package repository

import (
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
)

type TestimonialRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(testimonial *model.Testimonial) error {
	return r.db.Create(testimonial).Error
}

// List 分页获取评价，最新的在前
func (r *TestimonialRepository) List(page, pageSize int) ([]*model.Testimonial, int64, error) {
	var testimonials []*model.Testimonial
	var total int64

	query := r.db.Model(&model.Testimonial{}).Preload("User")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&testimonials).Error; err != nil {
		return nil, 0, err
	}

	return testimonials, total, nil
}

func (r *TestimonialRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Testimonial{}).Count(&count).Error
	return count, err
}

func (r *TestimonialRepository) Delete(id int64) error {
	return r.db.Delete(&model.Testimonial{}, id).Error
}
