package model

import "time"

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:190;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	Skills       []string  `gorm:"serializer:json" json:"skills,omitempty"`
	Location     string    `gorm:"size:190" json:"location,omitempty"`
	Website      string    `gorm:"size:512" json:"website,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// PublicUser is the participant shape embedded in bid, conversation and
// message payloads. Credentials and profile fields stay out.
type PublicUser struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
