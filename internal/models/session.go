package models

import "time"

// Session stores one refresh-token record. Only the sha256 digest of the raw
// token is persisted; the raw value is handed to the client exactly once.
type Session struct {
	ID               string    `gorm:"primaryKey;size:36"`
	UserID           string    `gorm:"size:36;index;not null"`
	RefreshTokenHash string    `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt        time.Time `gorm:"index;not null"`
	CreatedAt        time.Time
	UserAgent        string `gorm:"size:255"`
	IPAddress        string `gorm:"size:64"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
