package repository

import (
	"context"
	"strings"

	"github.com/gigflow/gigflow-backend/internal/model"
	"gorm.io/gorm"
)

type GigRepository interface {
	Create(ctx context.Context, gig *model.Gig) error
	FindByID(ctx context.Context, id uint64) (*model.Gig, error)
	List(ctx context.Context, search string, status model.GigStatus) ([]model.Gig, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Gig, error)
}

type gigRepository struct {
	db *gorm.DB
}

func NewGigRepository(db *gorm.DB) GigRepository {
	return &gigRepository{db: db}
}

func (r *gigRepository) Create(ctx context.Context, gig *model.Gig) error {
	return r.db.WithContext(ctx).Create(gig).Error
}

func (r *gigRepository) FindByID(ctx context.Context, id uint64) (*model.Gig, error) {
	var gig model.Gig
	if err := r.db.WithContext(ctx).First(&gig, id).Error; err != nil {
		return nil, err
	}
	return &gig, nil
}

func (r *gigRepository) List(ctx context.Context, search string, status model.GigStatus) ([]model.Gig, error) {
	q := r.db.WithContext(ctx).Model(&model.Gig{})
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var gigs []model.Gig
	if err := q.Order("created_at DESC, id DESC").Find(&gigs).Error; err != nil {
		return nil, err
	}
	return gigs, nil
}

func (r *gigRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Gig, error) {
	var gigs []model.Gig
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&gigs).Error; err != nil {
		return nil, err
	}
	return gigs, nil
}
