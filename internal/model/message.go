package model

import "time"

type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64     `gorm:"column:conversation_id;not null;index" json:"conversationId"`
	SenderID       uint64     `gorm:"column:sender_id;not null;index" json:"senderId"`
	Text           string     `gorm:"size:2000;not null" json:"text"`
	EditedAt       *time.Time `gorm:"column:edited_at" json:"editedAt"`
	ReadBy         []uint64   `gorm:"column:read_by;serializer:json" json:"readBy"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Message) TableName() string {
	return "messages"
}
