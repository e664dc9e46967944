package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken rows are revoked, never deleted
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"column:token;size:255;not null;uniqueIndex"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	Revoked   bool      `gorm:"column:revoked;not null;default:false"`
	CreatedAt time.Time
}

// Usable reports whether the token can still mint new credentials at now
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
