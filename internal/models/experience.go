package models

import (
	"time"

	"github.com/lib/pq"
)

// Experience is a bookable activity (diving, sandbank picnic, night fishing, ...)
type Experience struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   string         `json:"description" db:"description"`
	Category      string         `json:"category" db:"category"`
	Price         float64        `json:"price" db:"price"`
	DurationHours float64        `json:"duration_hours" db:"duration_hours"`
	MaxGuests     int            `json:"max_guests" db:"max_guests"`
	Images        pq.StringArray `json:"images" db:"images"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	Featured      bool           `json:"featured" db:"featured"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// ExperienceRequest represents the admin request to create or update an experience
type ExperienceRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DurationHours float64  `json:"duration_hours" binding:"required,gt=0"`
	MaxGuests     int      `json:"max_guests" binding:"required,min=1"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"is_active,omitempty"`
	Featured      bool     `json:"featured"`
}
