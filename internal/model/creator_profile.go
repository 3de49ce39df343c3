package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONMap 用于 JSON 对象字段（社交链接等）
type JSONMap map[string]string

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = map[string]string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, m)
}

// CreatorProfile 创作者资料，含冗余统计字段。
// 统计字段随订阅/关注/发布操作同事务增减，可通过 stats 服务全量重算修复。
type CreatorProfile struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	UserID          int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName     string    `gorm:"size:100" json:"display_name"`
	Bio             string    `gorm:"type:text" json:"bio"`
	BannerImage     string    `gorm:"size:500" json:"banner_image"`
	ProfileImage    string    `gorm:"size:500" json:"profile_image"`
	Website         string    `gorm:"size:255" json:"website"`
	SocialLinks     JSONMap   `gorm:"type:json" json:"social_links"`
	TotalEarnings   float64   `gorm:"type:decimal(12,2);default:0" json:"total_earnings"`
	SubscriberCount int       `gorm:"default:0" json:"subscriber_count"`
	FollowerCount   int       `gorm:"default:0" json:"follower_count"`
	PostCount       int       `gorm:"default:0" json:"post_count"`
	IsVerified      bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CreatorProfile) TableName() string {
	return "creator_profiles"
}

type Follow struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	FollowerID int64     `gorm:"not null;index;uniqueIndex:uk_follower_followed" json:"follower_id"`
	FollowedID int64     `gorm:"not null;index;uniqueIndex:uk_follower_followed" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
