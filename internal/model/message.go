package model

import (
	"time"
)

type Message struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	SenderID     int64     `gorm:"not null;index" json:"sender_id"`
	ChannelID    int64     `gorm:"not null;index" json:"channel_id"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	IsPrivate    bool      `gorm:"default:false" json:"is_private"`
	TierRequired *int64    `json:"tier_required,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	// 关联
	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
