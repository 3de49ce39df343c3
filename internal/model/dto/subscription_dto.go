package dto

// SubscribeRequest 订阅请求
type SubscribeRequest struct {
	TierID    int64 `json:"tier_id" binding:"required"`
	AutoRenew *bool `json:"auto_renew,omitempty"`
}

// SubscriptionItem 订阅信息（返回给前端）
type SubscriptionItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatorID int64     `json:"creator_id"`
	TierID    int64     `json:"tier_id"`
	Status    string    `json:"status"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date,omitempty"`
	AutoRenew bool      `json:"auto_renew"`
	Tier      *TierItem `json:"tier,omitempty"`
}

// SubscriberItem 创作者侧的订阅者视图
type SubscriberItem struct {
	SubscriptionID int64  `json:"subscription_id"`
	UserID         int64  `json:"user_id"`
	TierID         int64  `json:"tier_id"`
	TierName       string `json:"tier_name"`
	Status         string `json:"status"`
	StartDate      string `json:"start_date"`
}
