package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrTierNotFound      = errors.New("档位不存在")
	ErrTierInactive      = errors.New("档位已停用")
	ErrTierNotOwned      = errors.New("无权操作此档位")
	ErrTierHasSubscriber = errors.New("档位仍有活跃订阅者，无法停用")
	ErrNotCreator        = errors.New("用户不是创作者")
)

type TierService struct {
	db          *gorm.DB
	tierRepo    *repository.TierRepository
	creatorRepo *repository.CreatorRepository
}

func NewTierService(db *gorm.DB, tierRepo *repository.TierRepository, creatorRepo *repository.CreatorRepository) *TierService {
	return &TierService{
		db:          db,
		tierRepo:    tierRepo,
		creatorRepo: creatorRepo,
	}
}

// Create 创建档位。价格和名称的格式校验由 gin binding 完成，
// 这里只做业务校验：调用方必须是创作者。
func (s *TierService) Create(creatorID int64, req *dto.CreateTierRequest) (*dto.TierItem, error) {
	isCreator, err := s.creatorRepo.ExistsByUserID(creatorID)
	if err != nil {
		return nil, err
	}
	if !isCreator {
		return nil, ErrNotCreator
	}

	tier := &model.Tier{
		CreatorID:      creatorID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Benefits:       req.Benefits,
		MaxSubscribers: req.MaxSubscribers,
		IsActive:       true,
	}
	if tier.Benefits == nil {
		tier.Benefits = model.StringArray{}
	}

	if err := s.tierRepo.Create(tier); err != nil {
		return nil, err
	}

	return buildTierItem(tier), nil
}

// ListByCreator 创作者的活跃档位，按价格升序
func (s *TierService) ListByCreator(creatorID int64) ([]*dto.TierItem, error) {
	tiers, err := s.tierRepo.ListActiveByCreator(creatorID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TierItem, 0, len(tiers))
	for _, tier := range tiers {
		items = append(items, buildTierItem(tier))
	}
	return items, nil
}

// Get 按 ID 获取档位
func (s *TierService) Get(tierID int64) (*dto.TierItem, error) {
	tier, err := s.tierRepo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}
	return buildTierItem(tier), nil
}

// Update 更新档位。价格不可修改，已有订阅按原价计费。
func (s *TierService) Update(tierID, creatorID int64, req *dto.UpdateTierRequest) (*dto.TierItem, error) {
	tier, err := s.tierRepo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}
	if tier.CreatorID != creatorID {
		return nil, ErrTierNotOwned
	}

	if req.Name != nil {
		tier.Name = *req.Name
	}
	if req.Description != nil {
		tier.Description = *req.Description
	}
	if req.Benefits != nil {
		tier.Benefits = req.Benefits
	}
	if req.MaxSubscribers != nil {
		tier.MaxSubscribers = req.MaxSubscribers
	}

	if err := s.tierRepo.Update(tier); err != nil {
		return nil, err
	}
	return buildTierItem(tier), nil
}

// Deactivate 停用档位（软删除）。仍有活跃订阅者时拒绝，
// 停用检查和写入在同一事务内完成，避免与并发订阅交错。
func (s *TierService) Deactivate(tierID, creatorID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tierRepo := s.tierRepo.WithTx(tx)

		tier, err := tierRepo.GetByIDForUpdate(tierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTierNotFound
			}
			return err
		}
		if tier.CreatorID != creatorID {
			return ErrTierNotOwned
		}

		count, err := tierRepo.CountActiveSubscribers(tierID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrTierHasSubscriber
		}

		return tierRepo.Deactivate(tierID)
	})
}

// IsAtCapacity 档位是否已满员
func (s *TierService) IsAtCapacity(tierID int64) (bool, error) {
	tier, err := s.tierRepo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrTierNotFound
		}
		return false, err
	}
	if tier.MaxSubscribers == nil {
		return false, nil
	}

	count, err := s.tierRepo.CountActiveSubscribers(tierID)
	if err != nil {
		return false, err
	}
	return count >= int64(*tier.MaxSubscribers), nil
}

func buildTierItem(tier *model.Tier) *dto.TierItem {
	isFull := tier.MaxSubscribers != nil && tier.SubscriberCount >= *tier.MaxSubscribers
	return &dto.TierItem{
		ID:              tier.ID,
		CreatorID:       tier.CreatorID,
		Name:            tier.Name,
		Description:     tier.Description,
		Price:           tier.Price,
		Benefits:        tier.Benefits,
		MaxSubscribers:  tier.MaxSubscribers,
		SubscriberCount: tier.SubscriberCount,
		IsActive:        tier.IsActive,
		IsFull:          isFull,
	}
}
