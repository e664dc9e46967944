package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lead struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BusinessName  string     `gorm:"column:business_name;not null"`
	Industry      string     `gorm:"column:industry;not null;index"`
	LeadScore     int        `gorm:"column:lead_score;not null;default:0;index"`
	Verified      bool       `gorm:"column:verified;not null;default:false"`
	ContactPerson *string    `gorm:"column:contact_person"`
	Designation   *string    `gorm:"column:designation"`
	ContactNumber *string    `gorm:"column:contact_number"`
	Email         *string    `gorm:"column:email"`
	Address       *string    `gorm:"column:address"`
	Country       *string    `gorm:"column:country"`
	Website       *string    `gorm:"column:website"`
	Summary       *string    `gorm:"column:summary"`
	UserID        *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
