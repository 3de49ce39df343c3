package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrContentNotFound = errors.New("内容不存在")
	ErrContentNotOwned = errors.New("无权操作此内容")
	ErrTierNotOwnedBy  = errors.New("档位不属于该创作者")
)

type ContentService struct {
	db          *gorm.DB
	contentRepo *repository.ContentRepository
	tierRepo    *repository.TierRepository
	subRepo     *repository.SubscriptionRepository
	followRepo  *repository.FollowRepository
	entitlement *EntitlementService
	stats       *StatsService
}

func NewContentService(
	db *gorm.DB,
	contentRepo *repository.ContentRepository,
	tierRepo *repository.TierRepository,
	subRepo *repository.SubscriptionRepository,
	followRepo *repository.FollowRepository,
	entitlement *EntitlementService,
	stats *StatsService,
) *ContentService {
	return &ContentService{
		db:          db,
		contentRepo: contentRepo,
		tierRepo:    tierRepo,
		subRepo:     subRepo,
		followRepo:  followRepo,
		entitlement: entitlement,
		stats:       stats,
	}
}

// Publish 发布内容。付费内容可关联档位，档位必须属于发布者本人。
func (s *ContentService) Publish(creatorID int64, req *dto.PublishContentRequest) (*dto.ContentItem, error) {
	if req.IsPremium && req.TierID != nil {
		tier, err := s.tierRepo.GetByID(*req.TierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTierNotFound
			}
			return nil, err
		}
		if tier.CreatorID != creatorID {
			return nil, ErrTierNotOwnedBy
		}
	}

	contentType := req.Type
	if contentType == "" {
		contentType = "text"
	}

	content := &model.Content{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Type:        contentType,
		FileURL:     req.FileURL,
		IsPremium:   req.IsPremium,
	}
	if req.IsPremium {
		content.TierID = req.TierID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.contentRepo.WithTx(tx).Create(content); err != nil {
			return err
		}
		return s.stats.ApplyContentPublished(tx, creatorID, 1)
	})
	if err != nil {
		return nil, err
	}

	return s.buildItem(content, creatorID, true), nil
}

// Get 内容详情。无权访问的付费内容返回锁定视图而不是错误，
// 前端据此展示付费墙。浏览数只在可访问时递增。
func (s *ContentService) Get(viewerID, contentID int64) (*dto.ContentItem, error) {
	content, err := s.contentRepo.GetByIDWithCreator(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	allowed, err := s.entitlement.CanAccessContent(viewerID, content)
	if err != nil {
		return nil, err
	}

	if allowed {
		if err := s.contentRepo.IncrementViewCount(contentID); err != nil {
			log.Printf("Failed to increment view count for content %d: %v", contentID, err)
		}
		content.ViewCount++
	}

	return s.buildItem(content, viewerID, allowed), nil
}

// ListByCreator 创作者的内容列表，锁定状态按调用方逐条判定
func (s *ContentService) ListByCreator(viewerID, creatorID int64, query *dto.ContentQuery) ([]*dto.ContentItem, int64, error) {
	filter := repository.ContentFilter{
		Type:      query.Type,
		IsPremium: query.IsPremium,
	}
	contents, total, err := s.contentRepo.ListByCreator(creatorID, filter, query.Page, query.PageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildItems(contents, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Feed 订阅 + 关注的创作者的内容，时间倒序
func (s *ContentService) Feed(userID int64, query *dto.ContentQuery) ([]*dto.ContentItem, int64, error) {
	followed, err := s.followRepo.ListFollowedIDs(userID)
	if err != nil {
		return nil, 0, err
	}

	var subscribed []int64
	subs, err := s.subRepo.ListByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	for _, sub := range subs {
		if sub.Status == "active" {
			subscribed = append(subscribed, sub.CreatorID)
		}
	}

	creatorIDs := dedupe(append(followed, subscribed...))

	filter := repository.ContentFilter{
		Type:      query.Type,
		IsPremium: query.IsPremium,
	}
	contents, total, err := s.contentRepo.ListByCreators(creatorIDs, filter, query.Page, query.PageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildItems(contents, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update 更新内容，仅限发布者本人
func (s *ContentService) Update(contentID, creatorID int64, req *dto.UpdateContentRequest) (*dto.ContentItem, error) {
	content, err := s.contentRepo.GetByID(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if content.CreatorID != creatorID {
		return nil, ErrContentNotOwned
	}

	if req.Title != nil {
		content.Title = *req.Title
	}
	if req.Description != nil {
		content.Description = *req.Description
	}
	if req.IsPremium != nil {
		content.IsPremium = *req.IsPremium
	}
	if req.TierID != nil {
		tier, err := s.tierRepo.GetByID(*req.TierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTierNotFound
			}
			return nil, err
		}
		if tier.CreatorID != creatorID {
			return nil, ErrTierNotOwnedBy
		}
		content.TierID = req.TierID
	}
	if !content.IsPremium {
		content.TierID = nil
	}

	if err := s.contentRepo.Update(content); err != nil {
		return nil, err
	}
	return s.buildItem(content, creatorID, true), nil
}

// Delete 删除内容，仅限发布者本人，post_count 同事务减量
func (s *ContentService) Delete(contentID, creatorID int64) error {
	content, err := s.contentRepo.GetByID(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	if content.CreatorID != creatorID {
		return ErrContentNotOwned
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.contentRepo.WithTx(tx).Delete(contentID); err != nil {
			return err
		}
		return s.stats.ApplyContentPublished(tx, creatorID, -1)
	})
}

func (s *ContentService) buildItems(contents []*model.Content, viewerID int64) ([]*dto.ContentItem, error) {
	items := make([]*dto.ContentItem, 0, len(contents))
	for _, content := range contents {
		allowed, err := s.entitlement.CanAccessContent(viewerID, content)
		if err != nil {
			return nil, err
		}
		items = append(items, s.buildItem(content, viewerID, allowed))
	}
	return items, nil
}

// buildItem 组装返回视图。locked 时不下发正文和文件地址。
func (s *ContentService) buildItem(content *model.Content, viewerID int64, allowed bool) *dto.ContentItem {
	item := &dto.ContentItem{
		ID:        content.ID,
		CreatorID: content.CreatorID,
		TierID:    content.TierID,
		Title:     content.Title,
		Type:      content.Type,
		IsPremium: content.IsPremium,
		Locked:    !allowed,
		ViewCount: content.ViewCount,
		CreatedAt: content.CreatedAt.Format(time.RFC3339),
	}
	if content.Creator != nil {
		item.CreatorName = content.Creator.Username
	}
	if allowed {
		item.Description = content.Description
		item.FileURL = content.FileURL
	}
	return item
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
