package model

import "time"

// Conversation is created lazily on first access to a bid's thread and
// never deleted. The unique index on bid_id keeps concurrent
// get-or-create calls from producing duplicates.
type Conversation struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BidID         uint64     `gorm:"column:bid_id;not null;uniqueIndex:uk_conversations_bid" json:"bidId"`
	GigID         uint64     `gorm:"column:gig_id;not null;index" json:"gigId"`
	OwnerID       uint64     `gorm:"column:owner_id;not null;index" json:"ownerId"`
	FreelancerID  uint64     `gorm:"column:freelancer_id;not null;index" json:"freelancerId"`
	LastMessageAt *time.Time `gorm:"column:last_message_at;index" json:"lastMessageAt"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) IsParticipant(userID uint64) bool {
	return c.OwnerID == userID || c.FreelancerID == userID
}

// OtherParticipant returns the counterparty for a given participant.
func (c *Conversation) OtherParticipant(userID uint64) uint64 {
	if c.OwnerID == userID {
		return c.FreelancerID
	}
	return c.OwnerID
}
