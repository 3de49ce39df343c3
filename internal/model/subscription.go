package model

import (
	"time"
)

// SubscriptionActiveKey 活跃订阅的占位值。
// active_key 仅在 status=active 时取该值，其余状态为 NULL，
// 由 (user_id, tier_id, active_key) 唯一索引保证同一用户对同一档位
// 至多存在一条活跃订阅；非活跃行的 NULL 不参与唯一性判断。
const SubscriptionActiveKey = "active"

type Subscription struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"not null;index;uniqueIndex:uk_sub_user_tier_active" json:"user_id"`
	CreatorID int64      `gorm:"not null;index" json:"creator_id"`
	TierID    int64      `gorm:"not null;index;uniqueIndex:uk_sub_user_tier_active" json:"tier_id"`
	Status    string     `gorm:"size:20;default:active;index" json:"status"` // pending, active, paused, cancelled, expired
	ActiveKey *string    `gorm:"size:10;uniqueIndex:uk_sub_user_tier_active" json:"-"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `gorm:"index" json:"end_date,omitempty"`
	AutoRenew bool       `gorm:"default:true" json:"auto_renew"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// 关联
	Tier *Tier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
