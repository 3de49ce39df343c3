package repository

import (
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *FollowRepository) WithTx(tx *gorm.DB) *FollowRepository {
	return &FollowRepository{db: tx}
}

func (r *FollowRepository) Create(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

func (r *FollowRepository) Delete(followerID, followedID int64) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{}).Error
}

func (r *FollowRepository) Exists(followerID, followedID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func (r *FollowRepository) CountFollowers(followedID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("followed_id = ?", followedID).Count(&count).Error
	return count, err
}

// ListFollowedIDs 用户关注的所有创作者 user_id
func (r *FollowRepository) ListFollowedIDs(followerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", followerID).
		Pluck("followed_id", &ids).Error
	return ids, err
}
