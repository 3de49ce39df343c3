package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *ChannelRepository) WithTx(tx *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: tx}
}

func (r *ChannelRepository) Create(channel *model.Channel) error {
	return r.db.Create(channel).Error
}

func (r *ChannelRepository) GetByID(id int64) (*model.Channel, error) {
	var channel model.Channel
	err := r.db.Where("id = ?", id).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// ListVisible 公开频道，加上用户创建或已加入的私有频道
func (r *ChannelRepository) ListVisible(userID int64) ([]*model.Channel, error) {
	var channels []*model.Channel
	err := r.db.
		Where("is_private = ? OR creator_id = ? OR id IN (?)",
			false, userID,
			r.db.Model(&model.ChannelMember{}).Select("channel_id").Where("user_id = ?", userID),
		).
		Order("created_at ASC").Find(&channels).Error
	return channels, err
}

func (r *ChannelRepository) ListByCreator(creatorID int64) ([]*model.Channel, error) {
	var channels []*model.Channel
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at ASC").Find(&channels).Error
	return channels, err
}

// AddMember 幂等加入：唯一索引 + ON CONFLICT DO NOTHING，
// 返回 true 表示本次调用真正插入了成员行。
func (r *ChannelRepository) AddMember(channelID, userID int64) (bool, error) {
	member := &model.ChannelMember{
		ChannelID: channelID,
		UserID:    userID,
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ChannelRepository) IsMember(channelID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.ChannelMember{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChannelRepository) CountMembers(channelID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.ChannelMember{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

// ListMemberIDs 频道全部成员 user_id，供消息扇出
func (r *ChannelRepository) ListMemberIDs(channelID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.ChannelMember{}).Where("channel_id = ?", channelID).
		Pluck("user_id", &ids).Error
	return ids, err
}
