package models

import (
	"time"

	"github.com/lib/pq"
)

// Package represents a bundled multi-day offering combining lodging and experiences
type Package struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	Duration    int            `json:"duration" db:"duration"`
	MaxGuests   int            `json:"max_guests" db:"max_guests"`
	Inclusions  pq.StringArray `json:"inclusions" db:"inclusions"`
	Exclusions  pq.StringArray `json:"exclusions" db:"exclusions"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	Featured    bool           `json:"featured" db:"featured"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// CreatePackageRequest represents the admin request to create a package
type CreatePackageRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Duration    int      `json:"duration" binding:"required,min=1"`
	MaxGuests   int      `json:"max_guests" binding:"required,min=1"`
	Inclusions  []string `json:"inclusions"`
	Exclusions  []string `json:"exclusions"`
	Featured    bool     `json:"featured"`
}

// UpdatePackageRequest represents the admin request to update a package
type UpdatePackageRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Duration    *int     `json:"duration,omitempty"`
	MaxGuests   *int     `json:"max_guests,omitempty"`
	Inclusions  []string `json:"inclusions,omitempty"`
	Exclusions  []string `json:"exclusions,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
}
