package models

import "time"

// ContentSection is a free-form CMS row keyed by section_key
type ContentSection struct {
	ID         string    `json:"id" db:"id"`
	SectionKey string    `json:"section_key" db:"section_key"`
	Title      string    `json:"title" db:"title"`
	Body       string    `json:"body" db:"body"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// NavigationItem is an ordered menu entry edited through the admin console
type NavigationItem struct {
	ID        string    `json:"id" db:"id"`
	Label     string    `json:"label" db:"label"`
	Href      string    `json:"href" db:"href"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateContentRequest represents the admin request to replace a section
type UpdateContentRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// NavigationItemRequest represents the admin request to create or update a menu entry
type NavigationItemRequest struct {
	Label     string `json:"label" binding:"required"`
	Href      string `json:"href" binding:"required"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active,omitempty"`
}
