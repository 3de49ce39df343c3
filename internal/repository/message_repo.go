package repository

import (
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// ListByChannel 返回频道最近 limit 条消息，按时间正序
func (r *MessageRepository) ListByChannel(channelID int64, limit int) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.Preload("Sender").Where("channel_id = ?", channelID).
		Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// 倒序查出最近 N 条后翻转为时间正序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
