package model

import "time"

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusRejected BidStatus = "rejected"
)

// Bid transitions pending -> hired (one per gig) or pending -> rejected,
// both via BidService.Hire; a pending bid may instead be deleted by its
// freelancer (withdraw). Hired and rejected are terminal.
type Bid struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	GigID        uint64    `gorm:"column:gig_id;not null;uniqueIndex:uk_bids_gig_freelancer" json:"gigId"`
	FreelancerID uint64    `gorm:"column:freelancer_id;not null;uniqueIndex:uk_bids_gig_freelancer" json:"freelancerId"`
	Message      string    `gorm:"size:500;not null" json:"message"`
	Price        float64   `gorm:"not null" json:"price"`
	Status       BidStatus `gorm:"size:16;not null;default:pending;index:idx_bids_status" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Bid) TableName() string {
	return "bids"
}
