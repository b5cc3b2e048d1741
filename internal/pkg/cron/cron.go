package cron

import (
	"log"
	"time"
)

// Snapshotter 每日指标快照的写入方
type Snapshotter interface {
	WriteDailySnapshot() error
}

type Service struct {
	snapshotter Snapshotter
	stopChan    chan struct{}
}

func NewService(snapshotter Snapshotter) *Service {
	return &Service{
		snapshotter: snapshotter,
		stopChan:    make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailySnapshot()
	log.Println("Cron service started (daily metrics snapshot)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailySnapshot 启动时先补写一次当天快照（幂等），之后每天零点执行
func (s *Service) runDailySnapshot() {
	s.writeSnapshot()

	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.writeSnapshot()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) writeSnapshot() {
	if s.snapshotter == nil {
		return
	}
	if err := s.snapshotter.WriteDailySnapshot(); err != nil {
		log.Printf("Failed to write daily metrics snapshot: %v", err)
		return
	}
	log.Println("Daily metrics snapshot written")
}

// RunNow 立即写一次快照（用于测试或手动触发）
func (s *Service) RunNow() error {
	if s.snapshotter == nil {
		return nil
	}
	return s.snapshotter.WriteDailySnapshot()
}
