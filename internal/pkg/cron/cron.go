package cron

import (
	"log"
	"time"

	"github.com/NatanaelSou/TCC-Project/internal/service"
)

// Service 定时任务：
//   - 每小时把 end_date 已过的活跃订阅置为 expired；
//   - 每天凌晨重算全部创作者计数器（对账）。
type Service struct {
	subService   *service.SubscriptionService
	statsService *service.StatsService
	stopChan     chan struct{}
}

func NewService(subService *service.SubscriptionService, statsService *service.StatsService) *Service {
	return &Service{
		subService:   subService,
		statsService: statsService,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runHourlyExpiry()
	go s.runDailyReconcile()
	log.Println("Cron service started (subscription expiry + counter reconcile)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runHourlyExpiry 每小时收口过期订阅
func (s *Service) runHourlyExpiry() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.expireSubscriptions()
		}
	}
}

func (s *Service) expireSubscriptions() {
	n, err := s.subService.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("Subscription expiry failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Expired %d overdue subscriptions", n)
	}
}

// runDailyReconcile 每天 UTC 零点重算计数器
func (s *Service) runDailyReconcile() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.reconcileCounters()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) reconcileCounters() {
	log.Println("Starting counter reconciliation...")
	n, err := s.statsService.RecomputeAll()
	if err != nil {
		log.Printf("Counter reconciliation failed after %d creators: %v", n, err)
		return
	}
	log.Printf("Counter reconciliation completed for %d creators", n)
}

// RunNow 立即执行一轮过期收口和对账（用于测试或手动触发）
func (s *Service) RunNow() error {
	s.expireSubscriptions()
	_, err := s.statsService.RecomputeAll()
	return err
}
