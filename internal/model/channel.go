package model

import (
	"time"
)

type Channel struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	CreatorID    int64     `gorm:"not null;index" json:"creator_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Type         string    `gorm:"size:20;default:chat" json:"type"` // chat, mural
	IsPrivate    bool      `gorm:"default:false" json:"is_private"`
	TierRequired *int64    `gorm:"index" json:"tier_required,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Channel) TableName() string {
	return "channels"
}

// ChannelMember 频道成员，(channel_id, user_id) 唯一，加入操作幂等。
type ChannelMember struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ChannelID int64     `gorm:"not null;index;uniqueIndex:uk_channel_user" json:"channel_id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:uk_channel_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ChannelMember) TableName() string {
	return "channel_members"
}
