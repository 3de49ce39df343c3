package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        &email,
		PasswordHash: &passwordHash,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// TestCreator 创建测试用户及其创作者资料
func TestCreator(t *testing.T, db *gorm.DB, opts ...func(*model.User)) (*model.User, *model.CreatorProfile) {
	t.Helper()

	user := TestUser(t, db, opts...)
	profile := &model.CreatorProfile{
		UserID:      user.ID,
		DisplayName: user.Username,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Failed to create test creator profile: %v", err)
	}

	return user, profile
}

// TestTier 创建测试档位
func TestTier(t *testing.T, db *gorm.DB, creatorID int64, opts ...func(*model.Tier)) *model.Tier {
	t.Helper()

	tier := &model.Tier{
		CreatorID: creatorID,
		Name:      fmt.Sprintf("Tier %d", nextSeq()),
		Price:     5.0,
		Benefits:  model.StringArray{"benefit"},
		IsActive:  true,
	}

	for _, opt := range opts {
		opt(tier)
	}

	// gorm 在 Create 时忽略带 default 标签的零值字段（并经 RETURNING 回写默认值），
	// 停用状态需在插入后显式写入
	wantInactive := !tier.IsActive

	if err := db.Create(tier).Error; err != nil {
		t.Fatalf("Failed to create test tier: %v", err)
	}

	if wantInactive {
		if err := db.Model(tier).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test tier: %v", err)
		}
		tier.IsActive = false
	}

	return tier
}

// WithPrice 设置价格
func WithPrice(price float64) func(*model.Tier) {
	return func(tier *model.Tier) {
		tier.Price = price
	}
}

// WithMaxSubscribers 设置容量上限
func WithMaxSubscribers(max int) func(*model.Tier) {
	return func(tier *model.Tier) {
		tier.MaxSubscribers = &max
	}
}

// WithInactive 置为停用
func WithInactive() func(*model.Tier) {
	return func(tier *model.Tier) {
		tier.IsActive = false
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID, creatorID, tierID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	activeKey := model.SubscriptionActiveKey
	sub := &model.Subscription{
		UserID:    userID,
		CreatorID: creatorID,
		TierID:    tierID,
		Status:    "active",
		ActiveKey: &activeKey,
		StartDate: time.Now(),
		AutoRenew: true,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithStatus 设置订阅状态，非 active 时清空 active_key
func WithStatus(status string) func(*model.Subscription) {
	return func(sub *model.Subscription) {
		sub.Status = status
		if status == "active" {
			key := model.SubscriptionActiveKey
			sub.ActiveKey = &key
		} else {
			sub.ActiveKey = nil
		}
	}
}

// WithEndDate 设置到期时间
func WithEndDate(end time.Time) func(*model.Subscription) {
	return func(sub *model.Subscription) {
		sub.EndDate = &end
	}
}

// TestChannel 创建测试频道
func TestChannel(t *testing.T, db *gorm.DB, creatorID int64, opts ...func(*model.Channel)) *model.Channel {
	t.Helper()

	channel := &model.Channel{
		CreatorID: creatorID,
		Name:      fmt.Sprintf("Channel %d", nextSeq()),
		Type:      "chat",
	}

	for _, opt := range opts {
		opt(channel)
	}

	if err := db.Create(channel).Error; err != nil {
		t.Fatalf("Failed to create test channel: %v", err)
	}

	return channel
}

// WithChannelType 设置频道类型
func WithChannelType(channelType string) func(*model.Channel) {
	return func(c *model.Channel) {
		c.Type = channelType
	}
}

// WithPrivate 置为私有频道，可选档位门槛
func WithPrivate(tierRequired *int64) func(*model.Channel) {
	return func(c *model.Channel) {
		c.IsPrivate = true
		c.TierRequired = tierRequired
	}
}

// TestContent 创建测试内容
func TestContent(t *testing.T, db *gorm.DB, creatorID int64, opts ...func(*model.Content)) *model.Content {
	t.Helper()

	content := &model.Content{
		CreatorID: creatorID,
		Title:     fmt.Sprintf("Content %d", nextSeq()),
		Type:      "text",
	}

	for _, opt := range opts {
		opt(content)
	}

	if err := db.Create(content).Error; err != nil {
		t.Fatalf("Failed to create test content: %v", err)
	}

	return content
}

// WithTitle 设置标题
func WithTitle(title string) func(*model.Content) {
	return func(c *model.Content) {
		c.Title = title
	}
}

// WithPremium 置为付费内容，可选关联档位
func WithPremium(tierID *int64) func(*model.Content) {
	return func(c *model.Content) {
		c.IsPremium = true
		c.TierID = tierID
	}
}

// TestFollow 创建关注关系
func TestFollow(t *testing.T, db *gorm.DB, followerID, followedID int64) *model.Follow {
	t.Helper()

	follow := &model.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("Failed to create test follow: %v", err)
	}

	return follow
}

// TestMember 将用户加入频道
func TestMember(t *testing.T, db *gorm.DB, channelID, userID int64) *model.ChannelMember {
	t.Helper()

	member := &model.ChannelMember{
		ChannelID: channelID,
		UserID:    userID,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to create test channel member: %v", err)
	}

	return member
}
