package model

import (
	"time"
)

type Content struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	CreatorID   int64     `gorm:"not null;index" json:"creator_id"`
	TierID      *int64    `gorm:"index" json:"tier_id,omitempty"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:20;default:text" json:"type"` // text, image, video
	FileURL     string    `gorm:"size:500" json:"file_url,omitempty"`
	IsPremium   bool      `gorm:"default:false;index" json:"is_premium"`
	ViewCount   int       `gorm:"default:0" json:"view_count"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Tier    *Tier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
}

func (Content) TableName() string {
	return "contents"
}
