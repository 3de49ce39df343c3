package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/pubsub"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/queue"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/ws"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrChannelNotFound    = errors.New("频道不存在")
	ErrChannelGated       = errors.New("需要订阅对应档位才能加入该频道")
	ErrNotChannelMember   = errors.New("不是频道成员")
	ErrWrongChannelType   = errors.New("频道类型不支持该操作")
	ErrMuralPostNotFound  = errors.New("墙贴不存在")
	ErrMuralParentInvalid = errors.New("父帖不属于该频道")
	ErrTierNotHeld        = errors.New("未订阅所需档位")
)

// 消息列表默认返回最近 50 条
const defaultMessageLimit = 50

type CommunityService struct {
	db          *gorm.DB
	channelRepo *repository.ChannelRepository
	messageRepo *repository.MessageRepository
	muralRepo   *repository.MuralRepository
	creatorRepo *repository.CreatorRepository
	entitlement *EntitlementService
	hub         *ws.Hub
	publisher   *pubsub.Publisher
	jobQueue    *queue.Queue
}

func NewCommunityService(
	db *gorm.DB,
	channelRepo *repository.ChannelRepository,
	messageRepo *repository.MessageRepository,
	muralRepo *repository.MuralRepository,
	creatorRepo *repository.CreatorRepository,
	entitlement *EntitlementService,
	hub *ws.Hub,
	publisher *pubsub.Publisher,
	jobQueue *queue.Queue,
) *CommunityService {
	return &CommunityService{
		db:          db,
		channelRepo: channelRepo,
		messageRepo: messageRepo,
		muralRepo:   muralRepo,
		creatorRepo: creatorRepo,
		entitlement: entitlement,
		hub:         hub,
		publisher:   publisher,
		jobQueue:    jobQueue,
	}
}

// CreateChannel 创建频道，创建者自动成为成员
func (s *CommunityService) CreateChannel(creatorID int64, req *dto.CreateChannelRequest) (*dto.ChannelItem, error) {
	isCreator, err := s.creatorRepo.ExistsByUserID(creatorID)
	if err != nil {
		return nil, err
	}
	if !isCreator {
		return nil, ErrNotCreator
	}

	channelType := req.Type
	if channelType == "" {
		channelType = "chat"
	}

	channel := &model.Channel{
		CreatorID:    creatorID,
		Name:         req.Name,
		Description:  req.Description,
		Type:         channelType,
		IsPrivate:    req.IsPrivate,
		TierRequired: req.TierRequired,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		channelRepo := s.channelRepo.WithTx(tx)
		if err := channelRepo.Create(channel); err != nil {
			return err
		}
		_, err := channelRepo.AddMember(channel.ID, creatorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	item := buildChannelItem(channel)
	item.MemberCount = 1
	item.IsMember = true
	return item, nil
}

// ListChannels 用户可见的频道：公开频道 + 自己创建或已加入的私有频道
func (s *CommunityService) ListChannels(userID int64) ([]*dto.ChannelItem, error) {
	channels, err := s.channelRepo.ListVisible(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChannelItem, 0, len(channels))
	for _, channel := range channels {
		item := buildChannelItem(channel)

		count, err := s.channelRepo.CountMembers(channel.ID)
		if err != nil {
			return nil, err
		}
		item.MemberCount = count

		isMember, err := s.channelRepo.IsMember(channel.ID, userID)
		if err != nil {
			return nil, err
		}
		item.IsMember = isMember || channel.CreatorID == userID

		items = append(items, item)
	}
	return items, nil
}

// Join 加入频道。私有且设档位门槛的频道要求持有对应活跃订阅，
// 被拒绝的加入不产生任何成员变更。幂等：重复加入返回 Joined=false。
func (s *CommunityService) Join(ctx context.Context, userID, channelID int64) (*dto.JoinChannelResponse, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	allowed, err := s.entitlement.CanJoinChannel(userID, channel)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrChannelGated
	}

	inserted, err := s.channelRepo.AddMember(channelID, userID)
	if err != nil {
		return nil, err
	}

	if inserted {
		s.notifyJoin(ctx, channel, userID)
	}

	return &dto.JoinChannelResponse{
		Joined:   inserted,
		IsMember: true,
		Channel:  channelID,
	}, nil
}

// IsMember 用户是否为频道成员（创建者视同成员）
func (s *CommunityService) IsMember(userID, channelID int64) (bool, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrChannelNotFound
		}
		return false, err
	}
	if channel.CreatorID == userID {
		return true, nil
	}
	return s.channelRepo.IsMember(channelID, userID)
}

// SendMessage 在 chat 频道发送消息并推送给在线成员。
// 标记为档位限定的消息要求发送者本人持有该档位（频道创建者除外）。
func (s *CommunityService) SendMessage(userID, channelID int64, req *dto.SendMessageRequest) (*dto.MessageItem, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	if channel.Type != "chat" {
		return nil, ErrWrongChannelType
	}

	isMember, err := s.IsMember(userID, channelID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotChannelMember
	}

	if err := s.checkItemTier(userID, channel, req.IsPrivate, req.TierRequired); err != nil {
		return nil, err
	}

	msg := &model.Message{
		SenderID:     userID,
		ChannelID:    channelID,
		Text:         req.Text,
		IsPrivate:    req.IsPrivate,
		TierRequired: req.TierRequired,
	}
	if err := s.messageRepo.Create(msg); err != nil {
		return nil, err
	}

	item := buildMessageItem(msg)
	s.fanOut(channel, msg, item)

	return item, nil
}

// checkItemTier 发布档位限定条目的资格校验
func (s *CommunityService) checkItemTier(userID int64, channel *model.Channel, isPrivate bool, tierRequired *int64) error {
	if !isPrivate || tierRequired == nil || userID == channel.CreatorID {
		return nil
	}
	holds, err := s.entitlement.HoldsTier(userID, *tierRequired)
	if err != nil {
		return err
	}
	if !holds {
		return ErrTierNotHeld
	}
	return nil
}

// ListMessages 频道消息，要求调用方有权访问频道。
// 档位限定的消息只返回给持有对应订阅的用户（发送者和频道创建者除外）。
func (s *CommunityService) ListMessages(userID, channelID int64) ([]*dto.MessageItem, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	allowed, err := s.entitlement.CanAccessChannel(userID, channel)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	messages, err := s.messageRepo.ListByChannel(channelID, defaultMessageLimit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MessageItem, 0, len(messages))
	for _, msg := range messages {
		visible, err := s.entitlement.CanAccessChannelItem(userID, channel.CreatorID, msg.SenderID, msg.IsPrivate, msg.TierRequired)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		items = append(items, buildMessageItem(msg))
	}
	return items, nil
}

// CreateMuralPost 在 mural 频道发布墙贴。
// 回复（ParentID）必须指向同频道的顶层帖。
func (s *CommunityService) CreateMuralPost(userID, channelID int64, req *dto.CreateMuralPostRequest) (*dto.MuralPostItem, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	if channel.Type != "mural" {
		return nil, ErrWrongChannelType
	}

	isMember, err := s.IsMember(userID, channelID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotChannelMember
	}

	if err := s.checkItemTier(userID, channel, req.IsPrivate, req.TierRequired); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.muralRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMuralPostNotFound
			}
			return nil, err
		}
		if parent.ChannelID != channelID {
			return nil, ErrMuralParentInvalid
		}
		// 只支持一级回复
		if parent.ParentID != nil {
			req.ParentID = parent.ParentID
		}
	}

	post := &model.MuralPost{
		CreatorID:    userID,
		ChannelID:    channelID,
		Title:        req.Title,
		Description:  req.Description,
		Images:       req.Images,
		ParentID:     req.ParentID,
		IsPrivate:    req.IsPrivate,
		TierRequired: req.TierRequired,
	}
	if post.Images == nil {
		post.Images = model.StringArray{}
	}

	if err := s.muralRepo.Create(post); err != nil {
		return nil, err
	}
	return buildMuralPostItem(post), nil
}

// ListMuralPosts 频道墙贴（顶层帖 + 回复树）。
// 档位限定的帖子连同其回复一起，只返回给持有对应订阅的用户。
func (s *CommunityService) ListMuralPosts(userID, channelID int64) ([]*dto.MuralPostItem, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	allowed, err := s.entitlement.CanAccessChannel(userID, channel)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	posts, err := s.muralRepo.ListByChannel(channelID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MuralPostItem, 0, len(posts))
	for _, post := range posts {
		visible, err := s.entitlement.CanAccessChannelItem(userID, channel.CreatorID, post.CreatorID, post.IsPrivate, post.TierRequired)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}

		item := buildMuralPostItem(post)
		if len(item.Replies) > 0 {
			replies := make([]*dto.MuralPostItem, 0, len(item.Replies))
			for i, reply := range post.Replies {
				visible, err := s.entitlement.CanAccessChannelItem(userID, channel.CreatorID, reply.CreatorID, reply.IsPrivate, reply.TierRequired)
				if err != nil {
					return nil, err
				}
				if visible {
					replies = append(replies, item.Replies[i])
				}
			}
			item.Replies = replies
		}
		items = append(items, item)
	}
	return items, nil
}

// fanOut 把新消息推送给频道内除发送者外的在线成员，
// 档位限定的消息只推送给有权查看的成员
func (s *CommunityService) fanOut(channel *model.Channel, msg *model.Message, item *dto.MessageItem) {
	if s.hub == nil {
		return
	}

	memberIDs, err := s.channelRepo.ListMemberIDs(channel.ID)
	if err != nil {
		log.Printf("Failed to list members of channel %d for fan-out: %v", channel.ID, err)
		return
	}

	targets := make([]int64, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == msg.SenderID {
			continue
		}
		if msg.IsPrivate {
			visible, err := s.entitlement.CanAccessChannelItem(id, channel.CreatorID, msg.SenderID, true, msg.TierRequired)
			if err != nil {
				log.Printf("Failed to check message visibility for user %d in channel %d: %v", id, channel.ID, err)
				continue
			}
			if !visible {
				continue
			}
		}
		targets = append(targets, id)
	}
	s.hub.SendToUsers(targets, &ws.Message{
		Type: ws.TypeChannelMessage,
		Data: item,
	})
}

// notifyJoin 通知频道创建者有新成员加入，尽力而为
func (s *CommunityService) notifyJoin(ctx context.Context, channel *model.Channel, userID int64) {
	if s.publisher != nil {
		event := &pubsub.Event{
			Type:      pubsub.EventJoined,
			UserID:    userID,
			CreatorID: channel.CreatorID,
			ChannelID: channel.ID,
		}
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			log.Printf("Failed to publish joined event for channel %d: %v", channel.ID, err)
		}
	}

	if s.jobQueue != nil {
		job := &queue.NotificationJob{
			EventType: pubsub.EventJoined,
			UserID:    userID,
			CreatorID: channel.CreatorID,
			ChannelID: channel.ID,
		}
		if err := s.jobQueue.Push(ctx, job); err != nil {
			log.Printf("Failed to enqueue join notification for channel %d: %v", channel.ID, err)
		}
	}
}

func buildChannelItem(channel *model.Channel) *dto.ChannelItem {
	return &dto.ChannelItem{
		ID:           channel.ID,
		CreatorID:    channel.CreatorID,
		Name:         channel.Name,
		Description:  channel.Description,
		Type:         channel.Type,
		IsPrivate:    channel.IsPrivate,
		TierRequired: channel.TierRequired,
	}
}

func buildMessageItem(msg *model.Message) *dto.MessageItem {
	item := &dto.MessageItem{
		ID:           msg.ID,
		ChannelID:    msg.ChannelID,
		SenderID:     msg.SenderID,
		Text:         msg.Text,
		IsPrivate:    msg.IsPrivate,
		TierRequired: msg.TierRequired,
		CreatedAt:    msg.CreatedAt.Format(time.RFC3339),
	}
	if msg.Sender != nil {
		item.SenderName = msg.Sender.Username
	}
	return item
}

func buildMuralPostItem(post *model.MuralPost) *dto.MuralPostItem {
	item := &dto.MuralPostItem{
		ID:           post.ID,
		ChannelID:    post.ChannelID,
		CreatorID:    post.CreatorID,
		Title:        post.Title,
		Description:  post.Description,
		Images:       post.Images,
		IsPrivate:    post.IsPrivate,
		TierRequired: post.TierRequired,
		LikeCount:    post.LikeCount,
		CreatedAt:    post.CreatedAt.Format(time.RFC3339),
	}
	if post.Creator != nil {
		item.CreatorName = post.Creator.Username
	}
	for _, reply := range post.Replies {
		item.Replies = append(item.Replies, buildMuralPostItem(reply))
	}
	return item
}
