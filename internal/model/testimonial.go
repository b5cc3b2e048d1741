package model

import (
	"time"
)

type Testimonial struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	PhotoURL  string    `gorm:"size:500" json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}
