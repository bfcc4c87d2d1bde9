package model

import "time"

type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"
	GigStatusAssigned GigStatus = "assigned"
)

type BudgetType string

const (
	BudgetTypeFixed  BudgetType = "fixed"
	BudgetTypeHourly BudgetType = "hourly"
)

// Gig transitions open -> assigned exactly once, via BidService.Hire.
// Status is "assigned" iff AssignedBidID and AssignedFreelancerID are set.
type Gig struct {
	ID                   uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title                string     `gorm:"size:100;not null" json:"title"`
	Description          string     `gorm:"type:text;not null" json:"description"`
	Budget               float64    `gorm:"not null" json:"budget"`
	BudgetType           BudgetType `gorm:"column:budget_type;size:16;not null;default:fixed" json:"budgetType"`
	SkillsRequired       []string   `gorm:"column:skills_required;serializer:json" json:"skillsRequired"`
	Deadline             *time.Time `gorm:"column:deadline" json:"deadline"`
	OwnerID              uint64     `gorm:"column:owner_id;index:idx_gigs_owner;not null" json:"ownerId"`
	Status               GigStatus  `gorm:"size:16;not null;default:open;index:idx_gigs_status" json:"status"`
	AssignedBidID        *uint64    `gorm:"column:assigned_bid_id" json:"assignedBidId"`
	AssignedFreelancerID *uint64    `gorm:"column:assigned_freelancer_id" json:"assignedFreelancerId"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Gig) TableName() string {
	return "gigs"
}
