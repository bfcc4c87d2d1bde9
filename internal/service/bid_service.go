package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/notify"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"gorm.io/gorm"
)

// BidDetail is a bid enriched with the bidder and/or parent gig,
// depending on who is asking.
type BidDetail struct {
	model.Bid
	Freelancer *model.PublicUser `json:"freelancer,omitempty"`
	Gig        *model.Gig        `json:"gig,omitempty"`
}

type BidService interface {
	Create(ctx context.Context, gigID, freelancerID uint64, message string, price float64) (*BidDetail, error)
	ListByGig(ctx context.Context, gigID uint64) ([]BidDetail, error)
	ListByFreelancer(ctx context.Context, freelancerID uint64) ([]BidDetail, error)
	Hire(ctx context.Context, bidID, requesterID uint64) (*BidDetail, error)
	Withdraw(ctx context.Context, bidID, requesterID uint64) error
}

type bidService struct {
	bidRepo  repository.BidRepository
	gigRepo  repository.GigRepository
	userRepo repository.UserRepository
	notifier *notify.Notifier
}

func NewBidService(bidRepo repository.BidRepository, gigRepo repository.GigRepository, userRepo repository.UserRepository, notifier *notify.Notifier) BidService {
	return &bidService{bidRepo: bidRepo, gigRepo: gigRepo, userRepo: userRepo, notifier: notifier}
}

func (s *bidService) Create(ctx context.Context, gigID, freelancerID uint64, message string, price float64) (*BidDetail, error) {
	message = strings.TrimSpace(message)
	if len(message) < 10 || len(message) > 500 {
		return nil, fmt.Errorf("%w: message must be between 10 and 500 characters", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	gig, err := s.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: gig not found", ErrNotFound)
		}
		return nil, err
	}
	if gig.Status != model.GigStatusOpen {
		return nil, fmt.Errorf("%w: cannot bid on closed gig", ErrInvalidState)
	}
	if gig.OwnerID == freelancerID {
		return nil, fmt.Errorf("%w: cannot bid on your own gig", ErrForbidden)
	}
	if _, err := s.bidRepo.FindByGigAndFreelancer(ctx, gigID, freelancerID); err == nil {
		return nil, fmt.Errorf("%w: you have already bid on this gig", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bid := &model.Bid{
		GigID:        gigID,
		FreelancerID: freelancerID,
		Message:      message,
		Price:        price,
		Status:       model.BidStatusPending,
	}
	if err := s.bidRepo.Create(ctx, bid); err != nil {
		// The unique index on (gig_id, freelancer_id) decides races the
		// pre-check cannot see.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already bid on this gig", ErrConflict)
		}
		return nil, err
	}

	detail := &BidDetail{Bid: *bid, Gig: gig}
	bidderName := "A freelancer"
	if u, err := s.userRepo.FindByID(ctx, freelancerID); err == nil {
		pub := u.Public()
		detail.Freelancer = &pub
		bidderName = u.Name
	}

	s.notifier.BidReceived(gig, freelancerID, bidderName, detail)
	return detail, nil
}

func (s *bidService) ListByGig(ctx context.Context, gigID uint64) ([]BidDetail, error) {
	bids, err := s.bidRepo.ListByGig(ctx, gigID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(bids))
	for _, b := range bids {
		ids = append(ids, b.FreelancerID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make([]BidDetail, 0, len(bids))
	for _, b := range bids {
		d := BidDetail{Bid: b}
		if u, ok := users[b.FreelancerID]; ok {
			pub := u.Public()
			d.Freelancer = &pub
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *bidService) ListByFreelancer(ctx context.Context, freelancerID uint64) ([]BidDetail, error) {
	bids, err := s.bidRepo.ListByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	details := make([]BidDetail, 0, len(bids))
	for _, b := range bids {
		d := BidDetail{Bid: b}
		if gig, err := s.gigRepo.FindByID(ctx, b.GigID); err == nil {
			d.Gig = gig
		}
		details = append(details, d)
	}
	return details, nil
}

// Hire assigns the gig to the bid and rejects all competing bids in one
// transaction. Authorization and the open check run first; the same
// open check is re-applied inside the transaction as a conditional
// update, which is what makes two concurrent hires resolve to exactly
// one winner.
func (s *bidService) Hire(ctx context.Context, bidID, requesterID uint64) (*BidDetail, error) {
	bid, err := s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bid not found", ErrNotFound)
		}
		return nil, err
	}
	gig, err := s.gigRepo.FindByID(ctx, bid.GigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: gig not found", ErrNotFound)
		}
		return nil, err
	}
	if gig.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: you are not the owner of this gig", ErrForbidden)
	}
	if gig.Status != model.GigStatusOpen {
		return nil, fmt.Errorf("%w: gig is already assigned", ErrInvalidState)
	}

	if err := s.bidRepo.Hire(ctx, gig.ID, bid.ID, bid.FreelancerID); err != nil {
		if errors.Is(err, repository.ErrGigNotOpen) || errors.Is(err, repository.ErrBidNotPending) {
			return nil, fmt.Errorf("%w: gig is already assigned", ErrInvalidState)
		}
		return nil, err
	}

	// Re-read the committed state for the response payload.
	bid, err = s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	gig, err = s.gigRepo.FindByID(ctx, gig.ID)
	if err != nil {
		return nil, err
	}

	detail := &BidDetail{Bid: *bid, Gig: gig}
	freelancerName := "a freelancer"
	if u, err := s.userRepo.FindByID(ctx, bid.FreelancerID); err == nil {
		pub := u.Public()
		detail.Freelancer = &pub
		freelancerName = u.Name
	}

	s.notifier.Hired(gig, bid.FreelancerID, freelancerName, detail)
	return detail, nil
}

func (s *bidService) Withdraw(ctx context.Context, bidID, requesterID uint64) error {
	bid, err := s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: bid not found", ErrNotFound)
		}
		return err
	}
	if bid.FreelancerID != requesterID {
		return fmt.Errorf("%w: you are not the owner of this bid", ErrForbidden)
	}
	if bid.Status != model.BidStatusPending {
		return fmt.Errorf("%w: can only withdraw pending bids", ErrInvalidState)
	}

	rows, err := s.bidRepo.DeletePending(ctx, bidID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// A concurrent hire resolved the bid between the check and the
		// delete.
		return fmt.Errorf("%w: can only withdraw pending bids", ErrInvalidState)
	}

	if gig, err := s.gigRepo.FindByID(ctx, bid.GigID); err == nil {
		s.notifier.BidWithdrawn(gig, bidID)
	}
	return nil
}
