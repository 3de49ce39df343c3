package service

import (
	"context"
	"errors"
	"log"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/oss"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/pubsub"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrCreatorNotFound = errors.New("创作者不存在")
	ErrAlreadyCreator  = errors.New("用户已是创作者")
	ErrSelfFollow      = errors.New("不能关注自己")
)

type CreatorService struct {
	db          *gorm.DB
	creatorRepo *repository.CreatorRepository
	followRepo  *repository.FollowRepository
	subRepo     *repository.SubscriptionRepository
	stats       *StatsService
	ossClient   *oss.Client
	publisher   *pubsub.Publisher
}

func NewCreatorService(
	db *gorm.DB,
	creatorRepo *repository.CreatorRepository,
	followRepo *repository.FollowRepository,
	subRepo *repository.SubscriptionRepository,
	stats *StatsService,
	ossClient *oss.Client,
	publisher *pubsub.Publisher,
) *CreatorService {
	return &CreatorService{
		db:          db,
		creatorRepo: creatorRepo,
		followRepo:  followRepo,
		subRepo:     subRepo,
		stats:       stats,
		ossClient:   ossClient,
		publisher:   publisher,
	}
}

// BecomeCreator 为用户开通创作者资料
func (s *CreatorService) BecomeCreator(userID int64, req *dto.BecomeCreatorRequest) (*dto.CreatorInfo, error) {
	exists, err := s.creatorRepo.ExistsByUserID(userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyCreator
	}

	profile := &model.CreatorProfile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Website:     req.Website,
		SocialLinks: req.SocialLinks,
	}
	if profile.SocialLinks == nil {
		profile.SocialLinks = model.JSONMap{}
	}

	if err := s.creatorRepo.Create(profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCreator
		}
		return nil, err
	}
	return buildCreatorInfo(profile), nil
}

// GetCreator 创作者资料；viewerID 非零时附带关注/订阅状态
func (s *CreatorService) GetCreator(viewerID, creatorUserID int64) (*dto.CreatorInfo, error) {
	profile, err := s.creatorRepo.GetByUserIDWithUser(creatorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}

	info := buildCreatorInfo(profile)
	if viewerID != 0 && viewerID != creatorUserID {
		following, err := s.followRepo.Exists(viewerID, creatorUserID)
		if err != nil {
			return nil, err
		}
		info.IsFollowing = following

		subscribed, err := s.subRepo.ExistsActiveByCreator(viewerID, creatorUserID)
		if err != nil {
			return nil, err
		}
		info.IsSubscribed = subscribed
	}
	return info, nil
}

// UpdateCreator 更新创作者资料
func (s *CreatorService) UpdateCreator(userID int64, req *dto.UpdateCreatorRequest) (*dto.CreatorInfo, error) {
	profile, err := s.creatorRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.SocialLinks != nil {
		profile.SocialLinks = req.SocialLinks
	}

	if err := s.creatorRepo.Update(profile); err != nil {
		return nil, err
	}
	return buildCreatorInfo(profile), nil
}

// ListPopular 热门创作者，按订阅数降序
func (s *CreatorService) ListPopular(limit int) ([]*dto.CreatorInfo, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	profiles, err := s.creatorRepo.ListPopular(limit)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.CreatorInfo, 0, len(profiles))
	for _, profile := range profiles {
		infos = append(infos, buildCreatorInfo(profile))
	}
	return infos, nil
}

// ToggleFollow 关注/取关切换，关注计数器同事务增减
func (s *CreatorService) ToggleFollow(ctx context.Context, userID, creatorUserID int64) (*dto.FollowResponse, error) {
	if userID == creatorUserID {
		return nil, ErrSelfFollow
	}

	exists, err := s.creatorRepo.ExistsByUserID(creatorUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCreatorNotFound
	}

	following, err := s.followRepo.Exists(userID, creatorUserID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		followRepo := s.followRepo.WithTx(tx)
		if following {
			if err := followRepo.Delete(userID, creatorUserID); err != nil {
				return err
			}
			return s.stats.ApplyFollowed(tx, creatorUserID, -1)
		}

		follow := &model.Follow{FollowerID: userID, FollowedID: creatorUserID}
		if err := followRepo.Create(follow); err != nil {
			// 并发重复关注按已关注处理
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		return s.stats.ApplyFollowed(tx, creatorUserID, 1)
	})
	if err != nil {
		return nil, err
	}

	nowFollowing := !following
	if nowFollowing && s.publisher != nil {
		event := &pubsub.Event{
			Type:      pubsub.EventFollowed,
			UserID:    userID,
			CreatorID: creatorUserID,
		}
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			log.Printf("Failed to publish followed event for creator %d: %v", creatorUserID, err)
		}
	}

	count, err := s.followRepo.CountFollowers(creatorUserID)
	if err != nil {
		return nil, err
	}

	return &dto.FollowResponse{
		Following:     nowFollowing,
		FollowerCount: count,
	}, nil
}

// GetStats 创作者统计面板
func (s *CreatorService) GetStats(creatorUserID int64) (*dto.CreatorStats, error) {
	profile, err := s.creatorRepo.GetByUserID(creatorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}

	// 月收入按活跃订阅的档位价格汇总
	var monthly float64
	err = s.db.Model(&model.Subscription{}).
		Select("COALESCE(SUM(tiers.price), 0)").
		Joins("JOIN tiers ON tiers.id = subscriptions.tier_id").
		Where("subscriptions.creator_id = ? AND subscriptions.status = ?", creatorUserID, "active").
		Scan(&monthly).Error
	if err != nil {
		return nil, err
	}

	return &dto.CreatorStats{
		SubscriberCount: int64(profile.SubscriberCount),
		FollowerCount:   int64(profile.FollowerCount),
		PostCount:       int64(profile.PostCount),
		TotalEarnings:   profile.TotalEarnings,
		MonthlyRevenue:  monthly,
	}, nil
}

// UploadBanner 上传创作者横幅图
func (s *CreatorService) UploadBanner(userID int64, data []byte, filename string) (string, error) {
	profile, err := s.creatorRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCreatorNotFound
		}
		return "", err
	}

	url, err := s.ossClient.UploadBanner(userID, data, filepath.Ext(filename))
	if err != nil {
		return "", err
	}

	profile.BannerImage = url
	if err := s.creatorRepo.Update(profile); err != nil {
		return "", err
	}
	return url, nil
}

func buildCreatorInfo(profile *model.CreatorProfile) *dto.CreatorInfo {
	info := &dto.CreatorInfo{
		UserID:          profile.UserID,
		DisplayName:     profile.DisplayName,
		BannerImage:     profile.BannerImage,
		ProfileImage:    profile.ProfileImage,
		Website:         profile.Website,
		SocialLinks:     profile.SocialLinks,
		SubscriberCount: profile.SubscriberCount,
		FollowerCount:   profile.FollowerCount,
		PostCount:       profile.PostCount,
		IsVerified:      profile.IsVerified,
	}
	if profile.User != nil {
		info.Username = profile.User.Username
	}
	return info
}
