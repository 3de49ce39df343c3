package dto

// CreateTierRequest 创建档位请求
type CreateTierRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=100"`
	Description    string   `json:"description,omitempty" binding:"omitempty,max=500"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	Benefits       []string `json:"benefits,omitempty"`
	MaxSubscribers *int     `json:"max_subscribers,omitempty" binding:"omitempty,gt=0"`
}

// UpdateTierRequest 更新档位请求。价格不可修改，已有订阅按原价计费。
type UpdateTierRequest struct {
	Name           *string  `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Description    *string  `json:"description,omitempty" binding:"omitempty,max=500"`
	Benefits       []string `json:"benefits,omitempty"`
	MaxSubscribers *int     `json:"max_subscribers,omitempty" binding:"omitempty,gt=0"`
}

// TierItem 档位信息（返回给前端）
type TierItem struct {
	ID              int64    `json:"id"`
	CreatorID       int64    `json:"creator_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Price           float64  `json:"price"`
	Benefits        []string `json:"benefits"`
	MaxSubscribers  *int     `json:"max_subscribers,omitempty"`
	SubscriberCount int      `json:"subscriber_count"`
	IsActive        bool     `json:"is_active"`
	IsFull          bool     `json:"is_full"`
}
