package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/pkg/queue"
	"github.com/greenplate/mealsub_go_server/internal/pkg/retry"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("meal plan not found")
	ErrNoMealTypes          = errors.New("at least one meal type is required")
	ErrInvalidMealType      = errors.New("invalid meal type")
	ErrNoDeliveryDays       = errors.New("at least one delivery day is required")
	ErrInvalidDeliveryDay   = errors.New("invalid delivery day")
	ErrPriceMismatch        = errors.New("submitted price does not match computed price")
	ErrInvalidDate          = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrNotActive            = errors.New("only active subscriptions can be paused")
	ErrNotPaused            = errors.New("only paused subscriptions can be resumed")
	ErrAlreadyCancelled     = errors.New("subscription is already cancelled")
	ErrEditCancelled        = errors.New("cancelled subscriptions cannot be edited")
	ErrPauseStartNotFuture  = errors.New("start date must be after today")
	ErrPauseEndBeforeStart  = errors.New("end date must be after start date")
	ErrPausePending         = errors.New("subscription already has an open pause")
	ErrStatusConflict       = errors.New("subscription status changed, please retry")
)

// 存储层瞬时错误的重试策略：3 次尝试，退避翻倍
const (
	storageRetryAttempts  = 3
	storageRetryBaseDelay = 200 * time.Millisecond
)

type SubscriptionService struct {
	subRepo   *repository.SubscriptionRepository
	pauseRepo *repository.PauseRepository
	planRepo  *repository.PlanRepository
	userRepo  *repository.UserRepository
	notifier  *SubscriptionNotifier
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	pauseRepo *repository.PauseRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	notifier *SubscriptionNotifier,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		pauseRepo: pauseRepo,
		planRepo:  planRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// Create 创建订阅，初始状态 active。
// 订阅行、餐别明细、配送日明细在同一事务内落库。
func (s *SubscriptionService) Create(ctx context.Context, userID int64, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionDetail, error) {
	plan, mealTypes, weekdays, computed, err := s.validateSelections(req.PlanID, req.MealTypes, req.DeliveryDays, req.TotalPrice)
	if err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		UserID:     userID,
		PlanID:     plan.ID,
		MealType:   mealTypes[0], // 旧版单值字段，存首选餐别
		TotalPrice: computed,
		Allergies:  req.Allergies,
		Status:     model.StatusActive,
	}

	err = retry.Do(ctx, storageRetryAttempts, storageRetryBaseDelay, func() error {
		return s.subRepo.Transaction(func(tx *gorm.DB) error {
			txSub := s.subRepo.WithTx(tx)
			if err := txSub.Create(sub); err != nil {
				return err
			}
			if err := txSub.ReplaceMealTypes(sub.ID, mealTypes); err != nil {
				return err
			}
			return txSub.ReplaceDeliveryDays(sub.ID, weekdays)
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, userID, sub, plan.Name, queue.EventCreated, nil)

	return s.buildDetail(sub, plan, mealTypes, weekdays)
}

// Update 编辑订阅：换套餐、调整餐别/配送日/忌口，重新计算价格。
// active 和 paused 订阅都允许编辑，cancelled 拒绝。
func (s *SubscriptionService) Update(ctx context.Context, userID, subscriptionID int64, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionDetail, error) {
	sub, err := s.getOwned(subscriptionID, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status == model.StatusCancelled {
		return nil, ErrEditCancelled
	}

	plan, mealTypes, weekdays, computed, err := s.validateSelections(req.PlanID, req.MealTypes, req.DeliveryDays, req.TotalPrice)
	if err != nil {
		return nil, err
	}

	sub.PlanID = plan.ID
	sub.MealType = mealTypes[0]
	sub.TotalPrice = computed
	sub.Allergies = req.Allergies
	sub.Plan = nil

	err = retry.Do(ctx, storageRetryAttempts, storageRetryBaseDelay, func() error {
		return s.subRepo.Transaction(func(tx *gorm.DB) error {
			txSub := s.subRepo.WithTx(tx)
			if err := txSub.Update(sub); err != nil {
				return err
			}
			if err := txSub.ReplaceMealTypes(sub.ID, mealTypes); err != nil {
				return err
			}
			return txSub.ReplaceDeliveryDays(sub.ID, weekdays)
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, userID, sub, plan.Name, queue.EventUpdated, nil)

	return s.buildDetail(sub, plan, mealTypes, weekdays)
}

// Pause 暂停订阅。只允许 active → paused；
// 开始日期必须晚于今天；给了结束日期时必须晚于开始日期。
func (s *SubscriptionService) Pause(ctx context.Context, userID, subscriptionID int64, req *dto.PauseSubscriptionRequest) error {
	sub, err := s.getOwned(subscriptionID, userID)
	if err != nil {
		return err
	}
	if sub.Status != model.StatusActive {
		return ErrNotActive
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}

	td := today()
	if !startDate.After(td) {
		return ErrPauseStartNotFuture
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			return err
		}
		if !parsed.After(startDate) {
			return ErrPauseEndBeforeStart
		}
		endDate = &parsed
	}

	hasOpen, err := s.pauseRepo.HasOpen(sub.ID, td)
	if err != nil {
		return err
	}
	if hasOpen {
		return ErrPausePending
	}

	err = retry.Do(ctx, storageRetryAttempts, storageRetryBaseDelay, func() error {
		return s.subRepo.Transaction(func(tx *gorm.DB) error {
			// 状态 CAS：并发的两次 pause 只让一次成功
			ok, err := s.subRepo.WithTx(tx).UpdateStatusIf(sub.ID, model.StatusActive, model.StatusPaused)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStatusConflict
			}

			return s.pauseRepo.WithTx(tx).Create(&model.PauseRecord{
				SubscriptionID: sub.ID,
				StartDate:      startDate,
				EndDate:        endDate,
			})
		})
	})
	if err != nil {
		return err
	}

	sub.Status = model.StatusPaused
	s.notify(ctx, userID, sub, s.planName(sub), queue.EventPaused, endDate)

	return nil
}

// Resume 恢复订阅。只允许 paused → active。
// 关闭最近插入的暂停记录（不区分是否已关闭，历史修复后刻意放宽）；
// 记录缺失时补一条当天开始并立即关闭的记录自愈，不报错。
func (s *SubscriptionService) Resume(ctx context.Context, userID, subscriptionID int64) error {
	sub, err := s.getOwned(subscriptionID, userID)
	if err != nil {
		return err
	}
	if sub.Status != model.StatusPaused {
		return ErrNotPaused
	}

	td := today()

	err = retry.Do(ctx, storageRetryAttempts, storageRetryBaseDelay, func() error {
		return s.subRepo.Transaction(func(tx *gorm.DB) error {
			ok, err := s.subRepo.WithTx(tx).UpdateStatusIf(sub.ID, model.StatusPaused, model.StatusActive)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStatusConflict
			}

			txPause := s.pauseRepo.WithTx(tx)
			record, err := txPause.GetLatest(sub.ID)
			if err != nil {
				return err
			}

			endDate := td
			if record == nil {
				// 状态与台账不一致：补记录并立即关闭
				return txPause.Create(&model.PauseRecord{
					SubscriptionID: sub.ID,
					StartDate:      td,
					EndDate:        &endDate,
				})
			}

			record.EndDate = &endDate
			return txPause.Update(record)
		})
	})
	if err != nil {
		return err
	}

	sub.Status = model.StatusActive
	s.notify(ctx, userID, sub, s.planName(sub), queue.EventResumed, nil)

	return nil
}

// Cancel 取消订阅。active/paused 都允许，cancelled 是终态，
// 二次取消返回错误而不是静默成功。
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID int64) error {
	sub, err := s.getOwned(subscriptionID, userID)
	if err != nil {
		return err
	}
	if sub.Status == model.StatusCancelled {
		return ErrAlreadyCancelled
	}

	from := sub.Status
	err = retry.Do(ctx, storageRetryAttempts, storageRetryBaseDelay, func() error {
		ok, err := s.subRepo.UpdateStatusIf(sub.ID, from, model.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStatusConflict
		}
		return nil
	})
	if err != nil {
		return err
	}

	sub.Status = model.StatusCancelled
	s.notify(ctx, userID, sub, s.planName(sub), queue.EventCancelled, nil)

	return nil
}

// Get 获取订阅详情
func (s *SubscriptionService) Get(userID, subscriptionID int64) (*dto.SubscriptionDetail, error) {
	sub, err := s.getOwned(subscriptionID, userID)
	if err != nil {
		return nil, err
	}

	mealTypes, err := s.subRepo.GetMealTypes(sub.ID)
	if err != nil {
		return nil, err
	}
	weekdays, err := s.subRepo.GetDeliveryDays(sub.ID)
	if err != nil {
		return nil, err
	}

	return s.buildDetail(sub, sub.Plan, mealTypes, weekdays)
}

// List 获取用户的订阅列表
func (s *SubscriptionService) List(userID int64) ([]*dto.SubscriptionListItem, error) {
	subs, err := s.subRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionListItem, 0, len(subs))
	for _, sub := range subs {
		paused, until, err := s.pauseState(sub)
		if err != nil {
			return nil, err
		}

		item := &dto.SubscriptionListItem{
			ID:         sub.ID,
			PlanID:     sub.PlanID,
			TotalPrice: sub.TotalPrice,
			Status:     sub.Status,
			Paused:     paused,
			CreatedAt:  sub.CreatedAt.Format(time.RFC3339),
		}
		if sub.Plan != nil {
			item.PlanName = sub.Plan.Name
		}
		if until != nil {
			item.PausedUntil = until.Format("2006-01-02")
		}
		items = append(items, item)
	}

	return items, nil
}

// pauseState 判定订阅的实际暂停状态。
// status 字段是唯一依据；按日期从台账反推状态曾引发线上数据不一致，不再使用。
// "暂停至"取最近插入记录的结束日期，记录缺失或结束日期为空视为无限期。
func (s *SubscriptionService) pauseState(sub *model.Subscription) (bool, *time.Time, error) {
	if sub.Status != model.StatusPaused {
		return false, nil, nil
	}

	record, err := s.pauseRepo.GetLatest(sub.ID)
	if err != nil {
		return false, nil, err
	}
	if record == nil || record.EndDate == nil {
		return true, nil, nil // 无限期暂停
	}

	return true, record.EndDate, nil
}

// getOwned 按 id 取订阅并校验归属。
// 订阅不存在或属于其他用户都返回 ErrSubscriptionNotFound，不泄露他人数据的存在性。
func (s *SubscriptionService) getOwned(subscriptionID, userID int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByIDWithPlan(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	if sub.UserID != userID {
		return nil, ErrSubscriptionNotFound
	}

	return sub, nil
}

// validateSelections 校验套餐/餐别/配送日并核对价格。
// 返回归一化后的餐别、配送日代码和服务端计算出的月度金额。
func (s *SubscriptionService) validateSelections(planID int64, mealTypes, deliveryDays []string, submittedPrice float64) (*model.MealPlan, []string, []int, float64, error) {
	if planID <= 0 {
		return nil, nil, nil, 0, ErrPlanNotFound
	}

	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, 0, ErrPlanNotFound
		}
		return nil, nil, nil, 0, err
	}

	normalizedTypes, err := normalizeMealTypes(mealTypes)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	weekdays, err := normalizeDeliveryDays(deliveryDays)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	computed := ComputeMonthlyPrice(plan.PricePerMeal, len(normalizedTypes), len(weekdays))
	if !PriceMatches(submittedPrice, computed) {
		return nil, nil, nil, 0, ErrPriceMismatch
	}

	return plan, normalizedTypes, weekdays, computed, nil
}

func (s *SubscriptionService) buildDetail(sub *model.Subscription, plan *model.MealPlan, mealTypes []string, weekdays []int) (*dto.SubscriptionDetail, error) {
	paused, until, err := s.pauseState(sub)
	if err != nil {
		return nil, err
	}

	dayNames := make([]string, 0, len(weekdays))
	for _, day := range weekdays {
		if day >= 0 && day < len(model.WeekdayNames) {
			dayNames = append(dayNames, model.WeekdayNames[day])
		}
	}

	detail := &dto.SubscriptionDetail{
		ID:           sub.ID,
		PlanID:       sub.PlanID,
		MealTypes:    mealTypes,
		DeliveryDays: dayNames,
		Allergies:    sub.Allergies,
		TotalPrice:   sub.TotalPrice,
		Status:       sub.Status,
		Paused:       paused,
		CreatedAt:    sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    sub.UpdatedAt.Format(time.RFC3339),
	}
	if plan != nil {
		detail.PlanName = plan.Name
		detail.PricePerMeal = plan.PricePerMeal
	}
	if until != nil {
		detail.PausedUntil = until.Format("2006-01-02")
	}

	return detail, nil
}

// notify 尽力而为地发出生命周期通知
func (s *SubscriptionService) notify(ctx context.Context, userID int64, sub *model.Subscription, planName, event string, pausedUntil *time.Time) {
	if s.notifier == nil {
		return
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return
	}

	s.notifier.NotifyEvent(ctx, user, sub, planName, event, pausedUntil)
}

func (s *SubscriptionService) planName(sub *model.Subscription) string {
	if sub.Plan != nil {
		return sub.Plan.Name
	}
	return ""
}

func normalizeMealTypes(mealTypes []string) ([]string, error) {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(mealTypes))
	for _, mt := range mealTypes {
		token := strings.ToLower(strings.TrimSpace(mt))
		if token == "" {
			continue
		}
		if !model.ValidMealTypes[token] {
			return nil, ErrInvalidMealType
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		normalized = append(normalized, token)
	}

	if len(normalized) == 0 {
		return nil, ErrNoMealTypes
	}
	return normalized, nil
}

func normalizeDeliveryDays(deliveryDays []string) ([]int, error) {
	seen := make(map[int]bool)
	weekdays := make([]int, 0, len(deliveryDays))
	for _, day := range deliveryDays {
		token := strings.ToLower(strings.TrimSpace(day))
		if token == "" {
			continue
		}
		code, ok := model.WeekdayCodes[token]
		if !ok {
			return nil, ErrInvalidDeliveryDay
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		weekdays = append(weekdays, code)
	}

	if len(weekdays) == 0 {
		return nil, ErrNoDeliveryDays
	}
	return weekdays, nil
}

// today 取本地时区的当天零点，日期比较都在天粒度进行
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}
