package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByIDWithTier(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("Tier").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListByUser(userID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("Tier").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) ListByCreator(creatorID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("Tier").Where("creator_id = ?", creatorID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// UpdateStatus 状态迁移。active_key 与 status 必须同步更新，
// 以维持「至多一条活跃订阅」的唯一索引语义。
func (r *SubscriptionRepository) UpdateStatus(id int64, status string) error {
	fields := map[string]interface{}{
		"status":     status,
		"active_key": nil,
	}
	if status == "active" {
		fields["active_key"] = model.SubscriptionActiveKey
	}
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).Updates(fields).Error
}

// ExistsActive 用户对该档位是否有活跃订阅
func (r *SubscriptionRepository) ExistsActive(userID, tierID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND tier_id = ? AND status = ?", userID, tierID, "active").
		Count(&count).Error
	return count > 0, err
}

// ExistsActiveByCreator 用户对该创作者的任意档位是否有活跃订阅
func (r *SubscriptionRepository) ExistsActiveByCreator(userID, creatorID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND creator_id = ? AND status = ?", userID, creatorID, "active").
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionRepository) CountActiveByTier(tierID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("tier_id = ? AND status = ?", tierID, "active").Count(&count).Error
	return count, err
}

func (r *SubscriptionRepository) CountActiveByCreator(creatorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("creator_id = ? AND status = ?", creatorID, "active").Count(&count).Error
	return count, err
}

// ListExpired 到期但仍为 active 的订阅，供定时任务收口
func (r *SubscriptionRepository) ListExpired(now time.Time) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("status = ? AND end_date IS NOT NULL AND end_date < ?", "active", now).
		Find(&subs).Error
	return subs, err
}
