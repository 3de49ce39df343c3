package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelDomainEvents = "domain_events"
)

// 领域事件类型
const (
	EventSubscribed  = "subscribed"
	EventCancelled   = "cancelled"
	EventReactivated = "reactivated"
	EventJoined      = "joined"
	EventFollowed    = "followed"
	EventUnfollowed  = "unfollowed"
)

// 事件对应的通知文案
var EventMessages = map[string]string{
	EventSubscribed:  "有新的订阅者",
	EventCancelled:   "有订阅被取消",
	EventReactivated: "有订阅被恢复",
	EventJoined:      "有用户加入频道",
	EventFollowed:    "有新的关注者",
	EventUnfollowed:  "有用户取消关注",
}

// Event 领域事件。订阅/成员/关注变更后发布，通知方不要求确认。
type Event struct {
	Type           string `json:"type"`
	UserID         int64  `json:"user_id"`
	CreatorID      int64  `json:"creator_id"`
	TierID         int64  `json:"tier_id,omitempty"`
	SubscriptionID int64  `json:"subscription_id,omitempty"`
	ChannelID      int64  `json:"channel_id,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEvent 发布领域事件
func (p *Publisher) PublishEvent(ctx context.Context, event *Event) error {
	if event.Message == "" {
		if msg, ok := EventMessages[event.Type]; ok {
			event.Message = msg
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, ChannelDomainEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅领域事件，阻塞直到 ctx 取消
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*Event)) error {
	pubsub := s.client.Subscribe(ctx, ChannelDomainEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
