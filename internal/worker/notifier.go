package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/pkg/email"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/pubsub"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/queue"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/ws"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

// Notifier 通知处理器。消费队列里的通知任务，
// 给创作者发邮件并向在线的创作者推送 websocket 通知。
// 通知尽力而为：单条失败记日志后丢弃，不重试。
type Notifier struct {
	userRepo    *repository.UserRepository
	tierRepo    *repository.TierRepository
	channelRepo *repository.ChannelRepository
	emailSvc    *email.Service
	hub         *ws.Hub
}

func NewNotifier(
	userRepo *repository.UserRepository,
	tierRepo *repository.TierRepository,
	channelRepo *repository.ChannelRepository,
	emailSvc *email.Service,
	hub *ws.Hub,
) *Notifier {
	return &Notifier{
		userRepo:    userRepo,
		tierRepo:    tierRepo,
		channelRepo: channelRepo,
		emailSvc:    emailSvc,
		hub:         hub,
	}
}

// Process 处理单个通知任务
func (n *Notifier) Process(ctx context.Context, job *queue.NotificationJob) error {
	creator, err := n.userRepo.GetByID(job.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 创作者已不存在，任务作废
			return nil
		}
		return fmt.Errorf("failed to load creator %d: %w", job.CreatorID, err)
	}

	actor, err := n.userRepo.GetByID(job.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load user %d: %w", job.UserID, err)
	}

	n.pushRealtime(job)

	if creator.Email == nil || n.emailSvc == nil {
		return nil
	}

	switch job.EventType {
	case pubsub.EventSubscribed, pubsub.EventReactivated:
		tierName := n.tierName(job.TierID)
		return n.emailSvc.SendNewSubscriberNotice(*creator.Email, actor.Username, tierName)
	case pubsub.EventCancelled:
		tierName := n.tierName(job.TierID)
		return n.emailSvc.SendSubscriptionCancelledNotice(*creator.Email, actor.Username, tierName)
	case pubsub.EventJoined:
		return n.emailSvc.SendChannelJoinNotice(*creator.Email, actor.Username, n.channelName(job.ChannelID))
	default:
		// 关注等事件只推 websocket，不发邮件
		return nil
	}
}

// Run 消费循环，阻塞直到 ctx 取消
func (n *Notifier) Run(ctx context.Context, q *queue.Queue) error {
	log.Println("Notification worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopped")
			return ctx.Err()
		default:
		}

		job, err := q.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Failed to pop notification job: %v", err)
			continue
		}
		if job == nil {
			continue
		}

		if err := n.Process(ctx, job); err != nil {
			log.Printf("Failed to process %s notification for creator %d: %v",
				job.EventType, job.CreatorID, err)
		}
	}
}

func (n *Notifier) pushRealtime(job *queue.NotificationJob) {
	if n.hub == nil || !n.hub.IsOnline(job.CreatorID) {
		return
	}

	msg := &ws.Message{
		Type: ws.TypeNotification,
		Data: map[string]interface{}{
			"event_type": job.EventType,
			"user_id":    job.UserID,
			"tier_id":    job.TierID,
			"channel_id": job.ChannelID,
			"message":    pubsub.EventMessages[job.EventType],
		},
	}
	if err := n.hub.SendToUser(job.CreatorID, msg); err != nil {
		log.Printf("Failed to push notification to creator %d: %v", job.CreatorID, err)
	}
}

func (n *Notifier) tierName(tierID int64) string {
	if tierID == 0 {
		return ""
	}
	tier, err := n.tierRepo.GetByID(tierID)
	if err != nil {
		return ""
	}
	return tier.Name
}

func (n *Notifier) channelName(channelID int64) string {
	if channelID == 0 {
		return ""
	}
	channel, err := n.channelRepo.GetByID(channelID)
	if err != nil {
		return ""
	}
	return channel.Name
}
