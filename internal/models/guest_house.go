package models

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// GuestHouse represents a bookable lodging property
type GuestHouse struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   string         `json:"description" db:"description"`
	Atoll         string         `json:"atoll" db:"atoll"`
	Island        string         `json:"island" db:"island"`
	PricePerNight float64        `json:"price_per_night" db:"price_per_night"`
	MaxGuests     int            `json:"max_guests" db:"max_guests"`
	Rating        float64        `json:"rating" db:"rating"`
	Amenities     pq.StringArray `json:"amenities" db:"amenities"`
	Images        pq.StringArray `json:"images" db:"images"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	Featured      bool           `json:"featured" db:"featured"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// GuestHouseFilter narrows catalog listings
type GuestHouseFilter struct {
	Atoll    string
	Featured *bool
	Query    string
}

// CreateGuestHouseRequest represents the admin request to create a guest house
type CreateGuestHouseRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Atoll         string   `json:"atoll" binding:"required"`
	Island        string   `json:"island" binding:"required"`
	PricePerNight float64  `json:"price_per_night" binding:"required,gt=0"`
	MaxGuests     int      `json:"max_guests" binding:"required,min=1"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	Featured      bool     `json:"featured"`
}

// UpdateGuestHouseRequest represents the admin request to update a guest house
type UpdateGuestHouseRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Atoll         *string  `json:"atoll,omitempty"`
	Island        *string  `json:"island,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	MaxGuests     *int     `json:"max_guests,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	Images        []string `json:"images,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
	Featured      *bool    `json:"featured,omitempty"`
}

// Validate validates the create guest house request
func (r *CreateGuestHouseRequest) Validate() error {
	if r.PricePerNight <= 0 {
		return errors.New("price_per_night must be greater than zero")
	}
	if r.MaxGuests < 1 {
		return errors.New("max_guests must be at least 1")
	}
	return nil
}
