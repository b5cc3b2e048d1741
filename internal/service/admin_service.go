package service

import (
	"time"

	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/model/dto"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

type AdminService struct {
	userRepo        *repository.UserRepository
	subRepo         *repository.SubscriptionRepository
	testimonialRepo *repository.TestimonialRepository
	metricsRepo     *repository.MetricsRepository
}

func NewAdminService(
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	testimonialRepo *repository.TestimonialRepository,
	metricsRepo *repository.MetricsRepository,
) *AdminService {
	return &AdminService{
		userRepo:        userRepo,
		subRepo:         subRepo,
		testimonialRepo: testimonialRepo,
		metricsRepo:     metricsRepo,
	}
}

// Stats 实时汇总指标。月度营收只计 active 订阅的金额合计。
func (s *AdminService) Stats() (*dto.AdminStats, error) {
	stats := &dto.AdminStats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.TotalSubscriptions, err = s.subRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.ActiveCount, err = s.subRepo.CountByStatus(model.StatusActive); err != nil {
		return nil, err
	}
	if stats.PausedCount, err = s.subRepo.CountByStatus(model.StatusPaused); err != nil {
		return nil, err
	}
	if stats.CancelledCount, err = s.subRepo.CountByStatus(model.StatusCancelled); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.subRepo.SumActiveRevenue(); err != nil {
		return nil, err
	}
	if stats.TestimonialCount, err = s.testimonialRepo.Count(); err != nil {
		return nil, err
	}

	return stats, nil
}

// ListSubscriptions 管理后台订阅列表，status 为空查全部
func (s *AdminService) ListSubscriptions(page, pageSize int, status string) ([]*dto.AdminSubscriptionItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	subs, total, err := s.subRepo.ListAll(page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.AdminSubscriptionItem, 0, len(subs))
	for _, sub := range subs {
		item := &dto.AdminSubscriptionItem{
			ID:         sub.ID,
			TotalPrice: sub.TotalPrice,
			Status:     sub.Status,
			CreatedAt:  sub.CreatedAt.Format(time.RFC3339),
		}
		if sub.User != nil {
			item.Username = sub.User.Username
		}
		if sub.Plan != nil {
			item.PlanName = sub.Plan.Name
		}
		items = append(items, item)
	}
	return items, total, nil
}

// WriteDailySnapshot 写入当天的指标快照，供趋势图使用。
// 同一天重复触发（进程重启等）直接跳过，保持日期唯一。
func (s *AdminService) WriteDailySnapshot() error {
	date := today()

	existing, err := s.metricsRepo.GetByDate(date)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	snapshot := &model.MetricsSnapshot{SnapshotDate: date}
	if snapshot.ActiveCount, err = s.subRepo.CountByStatus(model.StatusActive); err != nil {
		return err
	}
	if snapshot.PausedCount, err = s.subRepo.CountByStatus(model.StatusPaused); err != nil {
		return err
	}
	if snapshot.CancelledCount, err = s.subRepo.CountByStatus(model.StatusCancelled); err != nil {
		return err
	}
	if snapshot.MonthlyRevenue, err = s.subRepo.SumActiveRevenue(); err != nil {
		return err
	}

	return s.metricsRepo.Create(snapshot)
}

// ListSnapshots 获取最近 days 天的快照
func (s *AdminService) ListSnapshots(days int) ([]*dto.SnapshotItem, error) {
	if days < 1 || days > 365 {
		days = 30
	}

	snapshots, err := s.metricsRepo.ListRecent(days)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SnapshotItem, 0, len(snapshots))
	for _, snap := range snapshots {
		items = append(items, &dto.SnapshotItem{
			SnapshotDate:   snap.SnapshotDate.Format("2006-01-02"),
			ActiveCount:    snap.ActiveCount,
			PausedCount:    snap.PausedCount,
			CancelledCount: snap.CancelledCount,
			MonthlyRevenue: snap.MonthlyRevenue,
		})
	}
	return items, nil
}
