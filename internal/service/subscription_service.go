package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/pubsub"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/queue"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrAlreadySubscribed    = errors.New("已订阅该档位")
	ErrTierFull             = errors.New("档位订阅人数已达上限")
	ErrSelfSubscribe        = errors.New("不能订阅自己的档位")
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrSubscriptionNotOwned = errors.New("无权操作此订阅")
	ErrInvalidTransition    = errors.New("当前状态不允许该操作")
)

type SubscriptionService struct {
	db        *gorm.DB
	subRepo   *repository.SubscriptionRepository
	tierRepo  *repository.TierRepository
	stats     *StatsService
	publisher *pubsub.Publisher
	jobQueue  *queue.Queue
}

func NewSubscriptionService(
	db *gorm.DB,
	subRepo *repository.SubscriptionRepository,
	tierRepo *repository.TierRepository,
	stats *StatsService,
	publisher *pubsub.Publisher,
	jobQueue *queue.Queue,
) *SubscriptionService {
	return &SubscriptionService{
		db:        db,
		subRepo:   subRepo,
		tierRepo:  tierRepo,
		stats:     stats,
		publisher: publisher,
		jobQueue:  jobQueue,
	}
}

// Subscribe 订阅档位。
// 容量和重复检查与插入在同一事务内完成，事务先对档位行加
// FOR UPDATE 锁，把并发的同档位订阅串行化；(user_id, tier_id,
// active_key) 唯一索引兜底，锁失效时重复插入报 ErrDuplicatedKey。
// 计数器增量与订阅插入同事务提交。
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, tierID int64, autoRenew bool) (*dto.SubscriptionItem, error) {
	var sub *model.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tierRepo := s.tierRepo.WithTx(tx)
		subRepo := s.subRepo.WithTx(tx)

		tier, err := tierRepo.GetByIDForUpdate(tierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTierNotFound
			}
			return err
		}
		if !tier.IsActive {
			return ErrTierNotFound
		}
		if tier.CreatorID == userID {
			return ErrSelfSubscribe
		}

		exists, err := subRepo.ExistsActive(userID, tierID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadySubscribed
		}

		if tier.MaxSubscribers != nil {
			count, err := subRepo.CountActiveByTier(tierID)
			if err != nil {
				return err
			}
			if count >= int64(*tier.MaxSubscribers) {
				return ErrTierFull
			}
		}

		activeKey := model.SubscriptionActiveKey
		sub = &model.Subscription{
			UserID:    userID,
			CreatorID: tier.CreatorID,
			TierID:    tierID,
			Status:    "active",
			ActiveKey: &activeKey,
			StartDate: time.Now(),
			AutoRenew: autoRenew,
		}
		if err := subRepo.Create(sub); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadySubscribed
			}
			return err
		}
		sub.Tier = tier

		return s.stats.ApplySubscriptionActivated(tx, tier.CreatorID, tierID)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, pubsub.EventSubscribed, sub)

	return buildSubscriptionItem(sub), nil
}

// Cancel 取消订阅。只有订阅人本人可以取消。
func (s *SubscriptionService) Cancel(ctx context.Context, subID, userID int64) (*dto.SubscriptionItem, error) {
	sub, err := s.transition(subID, userID, "cancelled", []string{"active", "paused", "pending"})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, pubsub.EventCancelled, sub)
	return buildSubscriptionItem(sub), nil
}

// Pause 暂停订阅。暂停的订阅不计入活跃，计数器同事务减量。
func (s *SubscriptionService) Pause(ctx context.Context, subID, userID int64) (*dto.SubscriptionItem, error) {
	sub, err := s.transition(subID, userID, "paused", []string{"active"})
	if err != nil {
		return nil, err
	}
	return buildSubscriptionItem(sub), nil
}

// Resume 恢复暂停的订阅，重新走激活检查
func (s *SubscriptionService) Resume(ctx context.Context, subID, userID int64) (*dto.SubscriptionItem, error) {
	return s.activate(ctx, subID, userID, []string{"paused"}, pubsub.EventReactivated)
}

// Reactivate 恢复已取消/过期的订阅，重新走激活检查
func (s *SubscriptionService) Reactivate(ctx context.Context, subID, userID int64) (*dto.SubscriptionItem, error) {
	return s.activate(ctx, subID, userID, []string{"cancelled", "expired"}, pubsub.EventReactivated)
}

// ConfirmPayment 支付确认后把 pending 订阅转为 active。
// 支付回调和订阅创建之间档位可能已满或用户已另行订阅，
// 激活前在事务内重做容量和重复检查。
func (s *SubscriptionService) ConfirmPayment(ctx context.Context, subID int64) (*dto.SubscriptionItem, error) {
	sub, err := s.subRepo.GetByID(subID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return s.activate(ctx, subID, sub.UserID, []string{"pending"}, pubsub.EventSubscribed)
}

// activate 把订阅迁移到 active，在事务内重做容量和重复检查。
// Resume / Reactivate / ConfirmPayment 共用该路径。
func (s *SubscriptionService) activate(ctx context.Context, subID, userID int64, fromStatuses []string, eventType string) (*dto.SubscriptionItem, error) {
	var sub *model.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := s.subRepo.WithTx(tx)
		tierRepo := s.tierRepo.WithTx(tx)

		var err error
		sub, err = subRepo.GetByID(subID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}
		if sub.UserID != userID {
			return ErrSubscriptionNotOwned
		}
		if !statusIn(sub.Status, fromStatuses) {
			return ErrInvalidTransition
		}

		tier, err := tierRepo.GetByIDForUpdate(sub.TierID)
		if err != nil {
			return err
		}
		if !tier.IsActive {
			return ErrTierInactive
		}
		sub.Tier = tier

		exists, err := subRepo.ExistsActive(userID, sub.TierID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadySubscribed
		}

		if tier.MaxSubscribers != nil {
			count, err := subRepo.CountActiveByTier(sub.TierID)
			if err != nil {
				return err
			}
			if count >= int64(*tier.MaxSubscribers) {
				return ErrTierFull
			}
		}

		if err := subRepo.UpdateStatus(subID, "active"); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadySubscribed
			}
			return err
		}
		sub.Status = "active"

		return s.stats.ApplySubscriptionActivated(tx, sub.CreatorID, sub.TierID)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, eventType, sub)
	return buildSubscriptionItem(sub), nil
}

// transition 把活跃订阅迁移到非活跃状态并减计数器
func (s *SubscriptionService) transition(subID, userID int64, toStatus string, fromStatuses []string) (*model.Subscription, error) {
	var sub *model.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := s.subRepo.WithTx(tx)

		var err error
		sub, err = subRepo.GetByIDWithTier(subID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}
		if sub.UserID != userID {
			return ErrSubscriptionNotOwned
		}
		if !statusIn(sub.Status, fromStatuses) {
			return ErrInvalidTransition
		}

		wasActive := sub.Status == "active"
		if err := subRepo.UpdateStatus(subID, toStatus); err != nil {
			return err
		}
		sub.Status = toStatus

		// pending 订阅从未计入计数器，跳过减量
		if wasActive {
			return s.stats.ApplySubscriptionDeactivated(tx, sub.CreatorID, sub.TierID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ExpireOverdue 把 end_date 已过的活跃订阅置为 expired，cron 调用
func (s *SubscriptionService) ExpireOverdue(now time.Time) (int, error) {
	subs, err := s.subRepo.ListExpired(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sub := range subs {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.subRepo.WithTx(tx).UpdateStatus(sub.ID, "expired"); err != nil {
				return err
			}
			return s.stats.ApplySubscriptionDeactivated(tx, sub.CreatorID, sub.TierID)
		})
		if err != nil {
			log.Printf("Failed to expire subscription %d: %v", sub.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// ListByUser 用户的全部订阅（含非活跃）
func (s *SubscriptionService) ListByUser(userID int64) ([]*dto.SubscriptionItem, error) {
	subs, err := s.subRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, buildSubscriptionItem(sub))
	}
	return items, nil
}

// ListSubscribers 创作者的订阅者列表
func (s *SubscriptionService) ListSubscribers(creatorID int64) ([]*dto.SubscriberItem, error) {
	subs, err := s.subRepo.ListByCreator(creatorID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriberItem, 0, len(subs))
	for _, sub := range subs {
		item := &dto.SubscriberItem{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			TierID:         sub.TierID,
			Status:         sub.Status,
			StartDate:      sub.StartDate.Format(time.RFC3339),
		}
		if sub.Tier != nil {
			item.TierName = sub.Tier.Name
		}
		items = append(items, item)
	}
	return items, nil
}

// IsUserSubscribedToTier 用户对档位是否有活跃订阅
func (s *SubscriptionService) IsUserSubscribedToTier(userID, tierID int64) (bool, error) {
	return s.subRepo.ExistsActive(userID, tierID)
}

// IsUserSubscribedToCreator 用户对创作者是否有活跃订阅
func (s *SubscriptionService) IsUserSubscribedToCreator(userID, creatorID int64) (bool, error) {
	return s.subRepo.ExistsActiveByCreator(userID, creatorID)
}

// notify 发布领域事件并投递通知任务。通知是尽力而为，
// 失败只记日志，不影响已提交的订阅变更。
func (s *SubscriptionService) notify(ctx context.Context, eventType string, sub *model.Subscription) {
	if s.publisher != nil {
		event := &pubsub.Event{
			Type:           eventType,
			UserID:         sub.UserID,
			CreatorID:      sub.CreatorID,
			TierID:         sub.TierID,
			SubscriptionID: sub.ID,
		}
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			log.Printf("Failed to publish %s event for subscription %d: %v", eventType, sub.ID, err)
		}
	}

	if s.jobQueue != nil {
		job := &queue.NotificationJob{
			EventType:      eventType,
			UserID:         sub.UserID,
			CreatorID:      sub.CreatorID,
			TierID:         sub.TierID,
			SubscriptionID: sub.ID,
		}
		if err := s.jobQueue.Push(ctx, job); err != nil {
			log.Printf("Failed to enqueue %s notification for subscription %d: %v", eventType, sub.ID, err)
		}
	}
}

func statusIn(status string, statuses []string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func buildSubscriptionItem(sub *model.Subscription) *dto.SubscriptionItem {
	item := &dto.SubscriptionItem{
		ID:        sub.ID,
		UserID:    sub.UserID,
		CreatorID: sub.CreatorID,
		TierID:    sub.TierID,
		Status:    sub.Status,
		StartDate: sub.StartDate.Format(time.RFC3339),
		AutoRenew: sub.AutoRenew,
	}
	if sub.EndDate != nil {
		item.EndDate = sub.EndDate.Format(time.RFC3339)
	}
	if sub.Tier != nil {
		item.Tier = buildTierItem(sub.Tier)
	}
	return item
}
