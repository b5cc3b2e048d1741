package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", time.Now().UnixNano()%1000000),
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         model.RoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.MealPlan)) *model.MealPlan {
	t.Helper()

	plan := &model.MealPlan{
		Name:         fmt.Sprintf("Test Plan %d", time.Now().UnixNano()%1000000),
		Description:  "均衡搭配的测试套餐",
		PricePerMeal: 30000,
		Active:       true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanName 设置套餐名
func WithPlanName(name string) func(*model.MealPlan) {
	return func(p *model.MealPlan) {
		p.Name = name
	}
}

// WithPricePerMeal 设置单餐价格
func WithPricePerMeal(price float64) func(*model.MealPlan) {
	return func(p *model.MealPlan) {
		p.PricePerMeal = price
	}
}

// WithInactive 设置套餐下架
func WithInactive() func(*model.MealPlan) {
	return func(p *model.MealPlan) {
		p.Active = false
	}
}

// TestSubscription 创建测试订阅（默认 active，含餐别与配送日明细）
func TestSubscription(t *testing.T, db *gorm.DB, userID, planID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		UserID:     userID,
		PlanID:     planID,
		MealType:   model.MealTypeLunch,
		TotalPrice: 30000 * 1 * 2 * 4.3,
		Status:     model.StatusActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	// 默认的餐别与配送日明细
	if err := db.Create(&model.SubscriptionMealType{
		SubscriptionID: sub.ID,
		MealType:       sub.MealType,
	}).Error; err != nil {
		t.Fatalf("Failed to create test meal type: %v", err)
	}

	for _, day := range []int{1, 3} {
		if err := db.Create(&model.DeliveryDay{
			SubscriptionID: sub.ID,
			Weekday:        day,
		}).Error; err != nil {
			t.Fatalf("Failed to create test delivery day: %v", err)
		}
	}

	return sub
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithTotalPrice 设置月度金额
func WithTotalPrice(price float64) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.TotalPrice = price
	}
}

// WithAllergies 设置忌口说明
func WithAllergies(allergies string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Allergies = allergies
	}
}

// TestPauseRecord 创建测试暂停记录
func TestPauseRecord(t *testing.T, db *gorm.DB, subscriptionID int64, start time.Time, end *time.Time) *model.PauseRecord {
	t.Helper()

	record := &model.PauseRecord{
		SubscriptionID: subscriptionID,
		StartDate:      start,
		EndDate:        end,
	}

	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to create test pause record: %v", err)
	}

	return record
}

// TestTestimonial 创建测试评价
func TestTestimonial(t *testing.T, db *gorm.DB, userID int64, content string, rating int) *model.Testimonial {
	t.Helper()

	testimonial := &model.Testimonial{
		UserID:  userID,
		Content: content,
		Rating:  rating,
	}

	if err := db.Create(testimonial).Error; err != nil {
		t.Fatalf("Failed to create test testimonial: %v", err)
	}

	return testimonial
}
