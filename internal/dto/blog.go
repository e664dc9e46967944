package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateBlogInput struct {
	Title         string
	Content       json.RawMessage
	FeaturedImage *string
}

// UpdateBlogInput leaves nil fields untouched
type UpdateBlogInput struct {
	Title         *string
	Content       json.RawMessage
	FeaturedImage *string
}

type TOCEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type BlogResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Content       json.RawMessage `json:"content"`
	FeaturedImage *string         `json:"featured_image"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BlogDetailResponse adds the table of contents for a single blog
type BlogDetailResponse struct {
	BlogResponse
	TOC []TOCEntry `json:"toc"`
}
