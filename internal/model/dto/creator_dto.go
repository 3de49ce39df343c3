package dto

// BecomeCreatorRequest 开通创作者请求
type BecomeCreatorRequest struct {
	DisplayName string            `json:"display_name" binding:"required,min=2,max=100"`
	Website     string            `json:"website,omitempty" binding:"omitempty,max=200"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// UpdateCreatorRequest 更新创作者资料请求
type UpdateCreatorRequest struct {
	DisplayName *string           `json:"display_name,omitempty" binding:"omitempty,min=2,max=100"`
	Website     *string           `json:"website,omitempty" binding:"omitempty,max=200"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// CreatorInfo 创作者资料（返回给前端）
type CreatorInfo struct {
	UserID          int64             `json:"user_id"`
	Username        string            `json:"username,omitempty"`
	DisplayName     string            `json:"display_name"`
	BannerImage     string            `json:"banner_image"`
	ProfileImage    string            `json:"profile_image"`
	Website         string            `json:"website,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	SubscriberCount int               `json:"subscriber_count"`
	FollowerCount   int               `json:"follower_count"`
	PostCount       int               `json:"post_count"`
	IsVerified      bool              `json:"is_verified"`
	IsFollowing     bool              `json:"is_following,omitempty"`
	IsSubscribed    bool              `json:"is_subscribed,omitempty"`
}

// CreatorStats 创作者统计
type CreatorStats struct {
	SubscriberCount int64   `json:"subscriber_count"`
	FollowerCount   int64   `json:"follower_count"`
	PostCount       int64   `json:"post_count"`
	TotalEarnings   float64 `json:"total_earnings"`
	MonthlyRevenue  float64 `json:"monthly_revenue"`
}

// FollowResponse 关注/取关结果
type FollowResponse struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}
