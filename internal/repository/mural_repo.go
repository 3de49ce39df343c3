package repository

import (
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
)

type MuralRepository struct {
	db *gorm.DB
}

func NewMuralRepository(db *gorm.DB) *MuralRepository {
	return &MuralRepository{db: db}
}

func (r *MuralRepository) Create(post *model.MuralPost) error {
	return r.db.Create(post).Error
}

func (r *MuralRepository) GetByID(id int64) (*model.MuralPost, error) {
	var post model.MuralPost
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByChannel 返回频道的顶层帖子（时间倒序），回复挂在 Replies 下
func (r *MuralRepository) ListByChannel(channelID int64) ([]*model.MuralPost, error) {
	var all []*model.MuralPost
	err := r.db.Preload("Creator").Where("channel_id = ?", channelID).
		Order("created_at DESC").Find(&all).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.MuralPost, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	var roots []*model.MuralPost
	for _, p := range all {
		if p.ParentID == nil {
			roots = append(roots, p)
			continue
		}
		if parent, ok := byID[*p.ParentID]; ok {
			parent.Replies = append(parent.Replies, p)
		}
	}
	return roots, nil
}
