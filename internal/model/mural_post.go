package model

import (
	"time"
)

type MuralPost struct {
	ID           int64       `gorm:"primaryKey" json:"id"`
	CreatorID    int64       `gorm:"not null;index" json:"creator_id"`
	ChannelID    int64       `gorm:"not null;index" json:"channel_id"`
	Title        string      `gorm:"size:200" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Images       StringArray `gorm:"type:json" json:"images"`
	ParentID     *int64      `gorm:"index" json:"parent_id,omitempty"`
	IsPrivate    bool        `gorm:"default:false" json:"is_private"`
	TierRequired *int64      `json:"tier_required,omitempty"`
	LikeCount    int         `gorm:"default:0" json:"like_count"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// 关联
	Creator *User        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Replies []*MuralPost `gorm:"-" json:"replies,omitempty"`
}

func (MuralPost) TableName() string {
	return "mural_posts"
}
