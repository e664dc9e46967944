package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Blog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title         string         `gorm:"column:title;not null"`
	Content       datatypes.JSON `gorm:"column:content;not null"`
	FeaturedImage *string        `gorm:"column:featured_image"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
