package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	BusinessName  string     `json:"business_name" binding:"required,max=255"`
	Industry      string     `json:"industry" binding:"required,max=255"`
	LeadScore     int        `json:"lead_score" binding:"gte=0,lte=100"`
	Verified      bool       `json:"verified"`
	ContactPerson *string    `json:"contact_person"`
	Designation   *string    `json:"designation"`
	ContactNumber *string    `json:"contact_number"`
	Email         *string    `json:"email" binding:"omitempty,email"`
	Address       *string    `json:"address"`
	Country       *string    `json:"country"`
	Website       *string    `json:"website"`
	Summary       *string    `json:"summary"`
	UserID        *uuid.UUID `json:"user_id"`
}

// UpdateLeadRequest only touches fields present in the payload
type UpdateLeadRequest struct {
	BusinessName  *string `json:"business_name" binding:"omitempty,max=255"`
	Industry      *string `json:"industry" binding:"omitempty,max=255"`
	LeadScore     *int    `json:"lead_score" binding:"omitempty,gte=0,lte=100"`
	Verified      *bool   `json:"verified"`
	ContactPerson *string `json:"contact_person"`
	Designation   *string `json:"designation"`
	ContactNumber *string `json:"contact_number"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
	Country       *string `json:"country"`
	Website       *string `json:"website"`
	Summary       *string `json:"summary"`
}

// LeadFilter binds the list and count query string
type LeadFilter struct {
	Industry     string     `form:"industry"`
	MinLeadScore *int       `form:"min_lead_score"`
	MaxLeadScore *int       `form:"max_lead_score"`
	Mine         bool       `form:"mine"`
	UserID       *uuid.UUID `form:"-"`
	Limit        int        `form:"-"`
	Offset       int        `form:"-"`
}

type LeadResponse struct {
	ID            uuid.UUID  `json:"id"`
	BusinessName  string     `json:"business_name"`
	Industry      string     `json:"industry"`
	LeadScore     int        `json:"lead_score"`
	Verified      bool       `json:"verified"`
	ContactPerson *string    `json:"contact_person"`
	Designation   *string    `json:"designation"`
	ContactNumber *string    `json:"contact_number"`
	Email         *string    `json:"email"`
	Address       *string    `json:"address"`
	Country       *string    `json:"country"`
	Website       *string    `json:"website"`
	Summary       *string    `json:"summary"`
	UserID        *uuid.UUID `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
