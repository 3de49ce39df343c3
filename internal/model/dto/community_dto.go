package dto

// CreateChannelRequest 创建频道请求
type CreateChannelRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Description  string `json:"description,omitempty" binding:"omitempty,max=500"`
	Type         string `json:"type,omitempty" binding:"omitempty,oneof=chat mural"`
	IsPrivate    bool   `json:"is_private"`
	TierRequired *int64 `json:"tier_required,omitempty"`
}

// ChannelItem 频道信息（返回给前端）
type ChannelItem struct {
	ID           int64  `json:"id"`
	CreatorID    int64  `json:"creator_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type"`
	IsPrivate    bool   `json:"is_private"`
	TierRequired *int64 `json:"tier_required,omitempty"`
	MemberCount  int64  `json:"member_count"`
	IsMember     bool   `json:"is_member"`
}

// JoinChannelResponse 加入频道结果。Joined 为 false 表示此前已是成员。
type JoinChannelResponse struct {
	Joined   bool  `json:"joined"`
	IsMember bool  `json:"is_member"`
	Channel  int64 `json:"channel_id"`
}

// SendMessageRequest 发送消息请求。
// IsPrivate + TierRequired 把单条消息限定给指定档位的订阅者。
type SendMessageRequest struct {
	Text         string `json:"text" binding:"required,min=1,max=2000"`
	IsPrivate    bool   `json:"is_private"`
	TierRequired *int64 `json:"tier_required,omitempty"`
}

// MessageItem 消息信息（返回给前端）
type MessageItem struct {
	ID           int64  `json:"id"`
	ChannelID    int64  `json:"channel_id"`
	SenderID     int64  `json:"sender_id"`
	SenderName   string `json:"sender_name,omitempty"`
	Text         string `json:"text"`
	IsPrivate    bool   `json:"is_private"`
	TierRequired *int64 `json:"tier_required,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// CreateMuralPostRequest 发布墙贴请求
type CreateMuralPostRequest struct {
	Title        string   `json:"title,omitempty" binding:"omitempty,max=200"`
	Description  string   `json:"description,omitempty" binding:"omitempty,max=2000"`
	Images       []string `json:"images,omitempty"`
	ParentID     *int64   `json:"parent_id,omitempty"`
	IsPrivate    bool     `json:"is_private"`
	TierRequired *int64   `json:"tier_required,omitempty"`
}

// MuralPostItem 墙贴信息（返回给前端）
type MuralPostItem struct {
	ID           int64            `json:"id"`
	ChannelID    int64            `json:"channel_id"`
	CreatorID    int64            `json:"creator_id"`
	CreatorName  string           `json:"creator_name,omitempty"`
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	Images       []string         `json:"images"`
	IsPrivate    bool             `json:"is_private"`
	TierRequired *int64           `json:"tier_required,omitempty"`
	LikeCount    int              `json:"like_count"`
	CreatedAt    string           `json:"created_at"`
	Replies      []*MuralPostItem `json:"replies,omitempty"`
}
