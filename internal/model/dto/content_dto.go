package dto

// PublishContentRequest 发布内容请求
type PublishContentRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Type        string `json:"type,omitempty" binding:"omitempty,oneof=text image video"`
	FileURL     string `json:"file_url,omitempty" binding:"omitempty,max=500"`
	IsPremium   bool   `json:"is_premium"`
	TierID      *int64 `json:"tier_id,omitempty"`
}

// UpdateContentRequest 更新内容请求
type UpdateContentRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	IsPremium   *bool   `json:"is_premium,omitempty"`
	TierID      *int64  `json:"tier_id,omitempty"`
}

// ContentQuery 内容列表查询参数
type ContentQuery struct {
	Type      string `form:"type" binding:"omitempty,oneof=text image video"`
	IsPremium *bool  `form:"is_premium"`
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ContentItem 内容信息（返回给前端）。
// Locked 为 true 时 FileURL 和 Description 不下发。
type ContentItem struct {
	ID          int64  `json:"id"`
	CreatorID   int64  `json:"creator_id"`
	CreatorName string `json:"creator_name,omitempty"`
	TierID      *int64 `json:"tier_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	FileURL     string `json:"file_url,omitempty"`
	IsPremium   bool   `json:"is_premium"`
	Locked      bool   `json:"locked"`
	ViewCount   int    `json:"view_count"`
	CreatedAt   string `json:"created_at"`
}
