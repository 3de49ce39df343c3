package service

import (
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

// StatsService 维护冗余计数器。
// 所有增量更新都由调用方在业务事务内触发（传入 tx），
// 与产生它们的写操作同提交同回滚；Recompute 系列方法
// 从底表全量重算，作为对账修复入口。
type StatsService struct {
	db          *gorm.DB
	tierRepo    *repository.TierRepository
	creatorRepo *repository.CreatorRepository
	subRepo     *repository.SubscriptionRepository
	followRepo  *repository.FollowRepository
	contentRepo *repository.ContentRepository
}

func NewStatsService(
	db *gorm.DB,
	tierRepo *repository.TierRepository,
	creatorRepo *repository.CreatorRepository,
	subRepo *repository.SubscriptionRepository,
	followRepo *repository.FollowRepository,
	contentRepo *repository.ContentRepository,
) *StatsService {
	return &StatsService{
		db:          db,
		tierRepo:    tierRepo,
		creatorRepo: creatorRepo,
		subRepo:     subRepo,
		followRepo:  followRepo,
		contentRepo: contentRepo,
	}
}

// ApplySubscriptionActivated 订阅激活后的计数器增量
func (s *StatsService) ApplySubscriptionActivated(tx *gorm.DB, creatorID, tierID int64) error {
	if err := s.tierRepo.WithTx(tx).IncrementSubscriberCount(tierID, 1); err != nil {
		return err
	}
	return s.creatorRepo.WithTx(tx).IncrementSubscriberCount(creatorID, 1)
}

// ApplySubscriptionDeactivated 订阅取消/过期/暂停后的计数器减量
func (s *StatsService) ApplySubscriptionDeactivated(tx *gorm.DB, creatorID, tierID int64) error {
	if err := s.tierRepo.WithTx(tx).IncrementSubscriberCount(tierID, -1); err != nil {
		return err
	}
	return s.creatorRepo.WithTx(tx).IncrementSubscriberCount(creatorID, -1)
}

// ApplyFollowed 关注/取关后的计数器增量
func (s *StatsService) ApplyFollowed(tx *gorm.DB, creatorID int64, delta int) error {
	return s.creatorRepo.WithTx(tx).IncrementFollowerCount(creatorID, delta)
}

// ApplyContentPublished 内容发布/删除后的计数器增量
func (s *StatsService) ApplyContentPublished(tx *gorm.DB, creatorID int64, delta int) error {
	return s.creatorRepo.WithTx(tx).IncrementPostCount(creatorID, delta)
}

// ApplyEarnings 支付完成后累加创作者收益
func (s *StatsService) ApplyEarnings(tx *gorm.DB, creatorID int64, amount float64) error {
	return s.creatorRepo.WithTx(tx).AddEarnings(creatorID, amount)
}

// Recompute 从底表重算单个创作者的全部计数器。
// 冗余计数与底表在异常路径下可能漂移，以底表为准覆盖。
func (s *StatsService) Recompute(creatorUserID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := s.subRepo.WithTx(tx)
		followRepo := s.followRepo.WithTx(tx)
		contentRepo := s.contentRepo.WithTx(tx)
		creatorRepo := s.creatorRepo.WithTx(tx)

		subscribers, err := subRepo.CountActiveByCreator(creatorUserID)
		if err != nil {
			return err
		}
		followers, err := followRepo.CountFollowers(creatorUserID)
		if err != nil {
			return err
		}
		posts, err := contentRepo.CountByCreator(creatorUserID)
		if err != nil {
			return err
		}

		if err := creatorRepo.SetCounters(creatorUserID, subscribers, followers, posts); err != nil {
			return err
		}

		// 该创作者全部档位的 subscriber_count 一并重算
		var tierIDs []int64
		if err := tx.Model(&model.Tier{}).Where("creator_id = ?", creatorUserID).
			Pluck("id", &tierIDs).Error; err != nil {
			return err
		}
		tierRepo := s.tierRepo.WithTx(tx)
		for _, tierID := range tierIDs {
			count, err := subRepo.CountActiveByTier(tierID)
			if err != nil {
				return err
			}
			if err := tierRepo.SetSubscriberCount(tierID, count); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecomputeAll 遍历所有创作者逐个重算，供 cmd/reconcile 和 cron 调用
func (s *StatsService) RecomputeAll() (int, error) {
	ids, err := s.creatorRepo.ListUserIDs()
	if err != nil {
		return 0, err
	}

	for i, id := range ids {
		if err := s.Recompute(id); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}
