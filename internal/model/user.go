package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"column:username;size:50;not null;uniqueIndex"`
	Email        string    `gorm:"column:email;size:100;not null;uniqueIndex"`
	PasswordHash *string   `gorm:"column:password_hash"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	GoogleSub    *string   `gorm:"column:google_sub;uniqueIndex"`
	ProfilePic   *string   `gorm:"column:profile_pic"`
	Roles        []Role    `gorm:"many2many:user_roles;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PermissionCodes returns the union of module:action codes across all roles
func (u *User) PermissionCodes() map[string]struct{} {
	codes := make(map[string]struct{})
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			codes[perm.Code()] = struct{}{}
		}
	}
	return codes
}

// RoleNames lists the names of the user's roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
