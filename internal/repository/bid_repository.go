package repository

import (
	"context"
	"errors"

	"github.com/gigflow/gigflow-backend/internal/model"
	"gorm.io/gorm"
)

// Zero-row conditions inside the hire transaction. Either one means a
// concurrent hire (or withdraw) got there first; the transaction rolls
// back and nothing is mutated.
var (
	ErrGigNotOpen    = errors.New("gig is not open")
	ErrBidNotPending = errors.New("bid is not pending")
)

type BidRepository interface {
	Create(ctx context.Context, bid *model.Bid) error
	FindByID(ctx context.Context, id uint64) (*model.Bid, error)
	FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uint64) (*model.Bid, error)
	ListByGig(ctx context.Context, gigID uint64) ([]model.Bid, error)
	ListByFreelancer(ctx context.Context, freelancerID uint64) ([]model.Bid, error)
	Hire(ctx context.Context, gigID, bidID, freelancerID uint64) error
	DeletePending(ctx context.Context, id uint64) (int64, error)
}

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *model.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

func (r *bidRepository) FindByID(ctx context.Context, id uint64) (*model.Bid, error) {
	var bid model.Bid
	if err := r.db.WithContext(ctx).First(&bid, id).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *bidRepository) FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uint64) (*model.Bid, error) {
	var bid model.Bid
	if err := r.db.WithContext(ctx).
		Where("gig_id = ? AND freelancer_id = ?", gigID, freelancerID).
		First(&bid).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *bidRepository) ListByGig(ctx context.Context, gigID uint64) ([]model.Bid, error) {
	var bids []model.Bid
	if err := r.db.WithContext(ctx).
		Where("gig_id = ?", gigID).
		Order("created_at DESC, id DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *bidRepository) ListByFreelancer(ctx context.Context, freelancerID uint64) ([]model.Bid, error) {
	var bids []model.Bid
	if err := r.db.WithContext(ctx).
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC, id DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

// Hire assigns the gig to the given bid and rejects every sibling, as a
// single transaction. Both status flips are conditional updates keyed
// on the current status, so two concurrent hires on one gig cannot both
// commit: the loser matches zero rows and rolls back.
func (r *bidRepository) Hire(ctx context.Context, gigID, bidID, freelancerID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Gig{}).
			Where("id = ? AND status = ?", gigID, model.GigStatusOpen).
			Updates(map[string]interface{}{
				"status":                 model.GigStatusAssigned,
				"assigned_bid_id":        bidID,
				"assigned_freelancer_id": freelancerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrGigNotOpen
		}

		res = tx.Model(&model.Bid{}).
			Where("id = ? AND status = ?", bidID, model.BidStatusPending).
			Update("status", model.BidStatusHired)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBidNotPending
		}

		return tx.Model(&model.Bid{}).
			Where("gig_id = ? AND id <> ?", gigID, bidID).
			Update("status", model.BidStatusRejected).Error
	})
}

// DeletePending removes a bid only while it is still pending, so a
// withdraw racing a hire cannot delete a bid the hire just resolved.
func (r *bidRepository) DeletePending(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.BidStatusPending).
		Delete(&model.Bid{})
	return res.RowsAffected, res.Error
}
