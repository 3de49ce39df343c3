package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

// Tier 创作者订阅档位。
// 只做软删除（is_active=false），历史订阅仍引用已停用档位。
type Tier struct {
	ID              int64       `gorm:"primaryKey" json:"id"`
	CreatorID       int64       `gorm:"not null;index" json:"creator_id"`
	Name            string      `gorm:"size:100;not null" json:"name"`
	Description     string      `gorm:"type:text" json:"description"`
	Price           float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	Benefits        StringArray `gorm:"type:json" json:"benefits"`
	MaxSubscribers  *int        `json:"max_subscribers,omitempty"`
	SubscriberCount int         `gorm:"default:0" json:"subscriber_count"`
	IsActive        bool        `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Tier) TableName() string {
	return "tiers"
}
