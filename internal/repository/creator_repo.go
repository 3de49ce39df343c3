package repository

import (
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type CreatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *CreatorRepository) WithTx(tx *gorm.DB) *CreatorRepository {
	return &CreatorRepository{db: tx}
}

func (r *CreatorRepository) Create(profile *model.CreatorProfile) error {
	return r.db.Create(profile).Error
}

func (r *CreatorRepository) GetByUserID(userID int64) (*model.CreatorProfile, error) {
	var profile model.CreatorProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CreatorRepository) GetByUserIDWithUser(userID int64) (*model.CreatorProfile, error) {
	var profile model.CreatorProfile
	err := r.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CreatorRepository) ExistsByUserID(userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// ListPopular 按订阅数降序返回热门创作者
func (r *CreatorRepository) ListPopular(limit int) ([]*model.CreatorProfile, error) {
	var profiles []*model.CreatorProfile
	err := r.db.Preload("User").Order("subscriber_count DESC").Limit(limit).Find(&profiles).Error
	return profiles, err
}

func (r *CreatorRepository) Update(profile *model.CreatorProfile) error {
	return r.db.Save(profile).Error
}

func (r *CreatorRepository) UpdateFields(userID int64, fields map[string]interface{}) error {
	return r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", userID).Updates(fields).Error
}

// 以下计数器均以创作者的 user_id 为键，随订阅/关注/发布操作同事务增减

func (r *CreatorRepository) IncrementSubscriberCount(creatorUserID int64, delta int) error {
	return r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", creatorUserID).
		Update("subscriber_count", gorm.Expr("subscriber_count + ?", delta)).Error
}

func (r *CreatorRepository) IncrementFollowerCount(creatorUserID int64, delta int) error {
	return r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", creatorUserID).
		Update("follower_count", gorm.Expr("follower_count + ?", delta)).Error
}

func (r *CreatorRepository) IncrementPostCount(creatorUserID int64, delta int) error {
	return r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", creatorUserID).
		Update("post_count", gorm.Expr("post_count + ?", delta)).Error
}

func (r *CreatorRepository) AddEarnings(creatorUserID int64, amount float64) error {
	return r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", creatorUserID).
		Update("total_earnings", gorm.Expr("total_earnings + ?", amount)).Error
}

// SetCounters 全量重算后回写（对账入口使用）
func (r *CreatorRepository) SetCounters(creatorUserID int64, subscribers, followers, posts int64) error {
	return r.db.Model(&model.CreatorProfile{}).Where("user_id = ?", creatorUserID).Updates(map[string]interface{}{
		"subscriber_count": subscribers,
		"follower_count":   followers,
		"post_count":       posts,
	}).Error
}

// ListUserIDs 所有创作者的 user_id，供全量对账遍历
func (r *CreatorRepository) ListUserIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.CreatorProfile{}).Pluck("user_id", &ids).Error
	return ids, err
}
