package service

import (
	"errors"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var ErrAccessDenied = errors.New("没有权限访问该内容")

// AccessInput 访问判定的全部输入。
// 判定本身是纯函数，数据库状态由服务层查好后传入，
// 便于单测和审计（同一输入永远得到同一结论）。
type AccessInput struct {
	ViewerID     int64 // 0 表示匿名
	OwnerID      int64
	Restricted   bool   // 内容 is_premium 或频道 is_private
	TierRequired *int64 // 解锁所需档位，nil 表示未配置
	HasTierSub   bool   // 对 TierRequired 档位有活跃订阅
	IsMember     bool   // 频道场景：已是频道成员
}

// Evaluate 访问判定规则，默认拒绝：
//  1. 未受限的内容对所有人开放（含匿名）；
//  2. 所有者永远可以访问自己的内容；
//  3. 频道场景：已是成员即可访问，成员资格在加入时已经校验过；
//  4. 其余受限内容要求订阅对应档位，未配置档位门槛的一律拒绝。
func Evaluate(in AccessInput) bool {
	if !in.Restricted {
		return true
	}
	if in.ViewerID != 0 && in.ViewerID == in.OwnerID {
		return true
	}
	if in.IsMember {
		return true
	}
	if in.TierRequired == nil {
		return false
	}
	return in.HasTierSub
}

// EntitlementService 访问控制的唯一入口。
// 所有读路径（内容列表/详情、消息、墙贴）都经由它判定，
// 不做缓存，判定结果永远反映当前订阅与成员状态。
type EntitlementService struct {
	subRepo     *repository.SubscriptionRepository
	channelRepo *repository.ChannelRepository
}

func NewEntitlementService(subRepo *repository.SubscriptionRepository, channelRepo *repository.ChannelRepository) *EntitlementService {
	return &EntitlementService{
		subRepo:     subRepo,
		channelRepo: channelRepo,
	}
}

// CanAccessContent 用户是否可以查看内容
func (s *EntitlementService) CanAccessContent(viewerID int64, content *model.Content) (bool, error) {
	in := AccessInput{
		ViewerID:     viewerID,
		OwnerID:      content.CreatorID,
		Restricted:   content.IsPremium,
		TierRequired: content.TierID,
	}

	if in.Restricted && in.TierRequired != nil && viewerID != 0 && viewerID != content.CreatorID {
		hasSub, err := s.subRepo.ExistsActive(viewerID, *content.TierID)
		if err != nil {
			return false, err
		}
		in.HasTierSub = hasSub
	}

	return Evaluate(in), nil
}

// CanAccessChannel 用户是否可以查看频道内容（消息、墙贴）
func (s *EntitlementService) CanAccessChannel(viewerID int64, channel *model.Channel) (bool, error) {
	in := AccessInput{
		ViewerID:     viewerID,
		OwnerID:      channel.CreatorID,
		Restricted:   channel.IsPrivate,
		TierRequired: channel.TierRequired,
	}

	if in.Restricted && viewerID != 0 && viewerID != channel.CreatorID {
		isMember, err := s.channelRepo.IsMember(channel.ID, viewerID)
		if err != nil {
			return false, err
		}
		in.IsMember = isMember

		if channel.TierRequired != nil && !isMember {
			hasSub, err := s.subRepo.ExistsActive(viewerID, *channel.TierRequired)
			if err != nil {
				return false, err
			}
			in.HasTierSub = hasSub
		}
	}

	return Evaluate(in), nil
}

// CanAccessChannelItem 频道内单条消息或墙贴的访问判定。
// 频道层的成员校验已在上游做过，这里只看条目自身的档位门槛，
// 成员身份不抵扣条目门槛（否则档位限定就形同虚设）。
// 频道创建者可以看到自己频道内的全部条目。
func (s *EntitlementService) CanAccessChannelItem(viewerID, channelOwnerID, itemOwnerID int64, restricted bool, tierRequired *int64) (bool, error) {
	if viewerID != 0 && viewerID == channelOwnerID {
		return true, nil
	}

	in := AccessInput{
		ViewerID:     viewerID,
		OwnerID:      itemOwnerID,
		Restricted:   restricted,
		TierRequired: tierRequired,
	}

	if restricted && tierRequired != nil && viewerID != 0 && viewerID != itemOwnerID {
		hasSub, err := s.subRepo.ExistsActive(viewerID, *tierRequired)
		if err != nil {
			return false, err
		}
		in.HasTierSub = hasSub
	}

	return Evaluate(in), nil
}

// HoldsTier 用户是否持有指定档位的活跃订阅
func (s *EntitlementService) HoldsTier(userID, tierID int64) (bool, error) {
	return s.subRepo.ExistsActive(userID, tierID)
}

// CanJoinChannel 用户是否可以加入频道。
// 与 CanAccessChannel 不同，加入不把已有成员身份算作资格：
// 私有且设档位门槛的频道必须持有对应订阅才能加入。
func (s *EntitlementService) CanJoinChannel(userID int64, channel *model.Channel) (bool, error) {
	if userID == channel.CreatorID {
		return true, nil
	}
	if !channel.IsPrivate || channel.TierRequired == nil {
		// 私有但未设档位门槛的频道任何登录用户可加入
		return true, nil
	}
	return s.subRepo.ExistsActive(userID, *channel.TierRequired)
}
