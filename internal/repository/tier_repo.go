package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type TierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) *TierRepository {
	return &TierRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *TierRepository) WithTx(tx *gorm.DB) *TierRepository {
	return &TierRepository{db: tx}
}

func (r *TierRepository) Create(tier *model.Tier) error {
	return r.db.Create(tier).Error
}

func (r *TierRepository) GetByID(id int64) (*model.Tier, error) {
	var tier model.Tier
	err := r.db.Where("id = ?", id).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// GetByIDForUpdate 加行锁读取档位，订阅路径的容量检查依赖该锁
func (r *TierRepository) GetByIDForUpdate(id int64) (*model.Tier, error) {
	var tier model.Tier
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// ListActiveByCreator 按价格升序返回创作者的活跃档位
func (r *TierRepository) ListActiveByCreator(creatorID int64) ([]*model.Tier, error) {
	var tiers []*model.Tier
	err := r.db.Where("creator_id = ? AND is_active = ?", creatorID, true).
		Order("price ASC").Find(&tiers).Error
	return tiers, err
}

func (r *TierRepository) Update(tier *model.Tier) error {
	return r.db.Save(tier).Error
}

func (r *TierRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Tier{}).Where("id = ?", id).Updates(fields).Error
}

// Deactivate 软删除，历史订阅仍引用该行
func (r *TierRepository) Deactivate(id int64) error {
	return r.db.Model(&model.Tier{}).Where("id = ?", id).Update("is_active", false).Error
}

// CountActiveSubscribers 活跃订阅数按订阅表实时统计（ground truth）
func (r *TierRepository) CountActiveSubscribers(tierID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("tier_id = ? AND status = ?", tierID, "active").Count(&count).Error
	return count, err
}

func (r *TierRepository) IncrementSubscriberCount(tierID int64, delta int) error {
	return r.db.Model(&model.Tier{}).Where("id = ?", tierID).
		Update("subscriber_count", gorm.Expr("subscriber_count + ?", delta)).Error
}

func (r *TierRepository) SetSubscriberCount(tierID int64, count int64) error {
	return r.db.Model(&model.Tier{}).Where("id = ?", tierID).
		Update("subscriber_count", count).Error
}
