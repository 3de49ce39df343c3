package repository

import (
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{db: tx}
}

// ContentFilter 列表查询的可选过滤条件
type ContentFilter struct {
	Type      string
	IsPremium *bool
	TierID    *int64
}

func (r *ContentRepository) Create(content *model.Content) error {
	return r.db.Create(content).Error
}

func (r *ContentRepository) GetByID(id int64) (*model.Content, error) {
	var content model.Content
	err := r.db.Where("id = ?", id).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) GetByIDWithCreator(id int64) (*model.Content, error) {
	var content model.Content
	err := r.db.Preload("Creator").Preload("Tier").Where("id = ?", id).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) ListByCreator(creatorID int64, filter ContentFilter, page, pageSize int) ([]*model.Content, int64, error) {
	query := r.db.Model(&model.Content{}).Where("creator_id = ?", creatorID)
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contents []*model.Content
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&contents).Error
	return contents, total, err
}

// ListByCreators 订阅/关注 feed：给定创作者集合的内容，时间倒序
func (r *ContentRepository) ListByCreators(creatorIDs []int64, filter ContentFilter, page, pageSize int) ([]*model.Content, int64, error) {
	if len(creatorIDs) == 0 {
		return []*model.Content{}, 0, nil
	}

	query := r.db.Model(&model.Content{}).Where("creator_id IN ?", creatorIDs)
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contents []*model.Content
	offset := (page - 1) * pageSize
	err := query.Preload("Creator").Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&contents).Error
	return contents, total, err
}

func (r *ContentRepository) Update(content *model.Content) error {
	return r.db.Save(content).Error
}

func (r *ContentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Content{}, id).Error
}

// IncrementViewCount 浏览数单调递增，读路径调用
func (r *ContentRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Content{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *ContentRepository) CountByCreator(creatorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Content{}).Where("creator_id = ?", creatorID).Count(&count).Error
	return count, err
}

func applyFilter(query *gorm.DB, filter ContentFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsPremium != nil {
		query = query.Where("is_premium = ?", *filter.IsPremium)
	}
	if filter.TierID != nil {
		query = query.Where("tier_id = ?", *filter.TierID)
	}
	return query
}
