package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is optional on refresh and logout, the cookie takes precedence
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type PermissionResponse struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

type RoleResponse struct {
	Name        string               `json:"name"`
	Permissions []PermissionResponse `json:"permissions"`
}

type UserResponse struct {
	ID         uuid.UUID      `json:"id"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	IsActive   bool           `json:"is_active"`
	ProfilePic *string        `json:"profile_pic,omitempty"`
	Roles      []RoleResponse `json:"roles"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
