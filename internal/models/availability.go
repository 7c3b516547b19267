package models

import (
	"errors"
	"time"
)

// RoomAvailability is one inventory row for a guest house on a calendar day.
// Invariant: 0 <= available_rooms <= total_rooms, enforced in the update path.
type RoomAvailability struct {
	ID             string    `json:"id" db:"id"`
	GuestHouseID   string    `json:"guest_house_id" db:"guest_house_id"`
	Date           time.Time `json:"date" db:"date"`
	TotalRooms     int       `json:"total_rooms" db:"total_rooms"`
	AvailableRooms int       `json:"available_rooms" db:"available_rooms"`
	PricePerNight  float64   `json:"price_per_night" db:"price_per_night"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PackageAvailability is the per-day slot inventory for a package departure
type PackageAvailability struct {
	ID             string    `json:"id" db:"id"`
	PackageID      string    `json:"package_id" db:"package_id"`
	Date           time.Time `json:"date" db:"date"`
	TotalSlots     int       `json:"total_slots" db:"total_slots"`
	AvailableSlots int       `json:"available_slots" db:"available_slots"`
	Price          float64   `json:"price" db:"price"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertRoomAvailabilityRequest represents the admin request to set inventory for a day
type UpsertRoomAvailabilityRequest struct {
	GuestHouseID   string  `json:"guest_house_id" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	TotalRooms     int     `json:"total_rooms" binding:"required,min=0"`
	AvailableRooms int     `json:"available_rooms"`
	PricePerNight  float64 `json:"price_per_night" binding:"required,gt=0"`
}

// UpsertPackageAvailabilityRequest represents the admin request to set package slots for a day
type UpsertPackageAvailabilityRequest struct {
	PackageID      string  `json:"package_id" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	TotalSlots     int     `json:"total_slots" binding:"required,min=0"`
	AvailableSlots int     `json:"available_slots"`
	Price          float64 `json:"price" binding:"required,gt=0"`
}

// Validate checks the inventory invariant before it reaches the database
func (r *UpsertRoomAvailabilityRequest) Validate() error {
	if r.AvailableRooms < 0 {
		return errors.New("available_rooms cannot be negative")
	}
	if r.AvailableRooms > r.TotalRooms {
		return errors.New("available_rooms cannot exceed total_rooms")
	}
	return nil
}

// Validate checks the slot invariant before it reaches the database
func (r *UpsertPackageAvailabilityRequest) Validate() error {
	if r.AvailableSlots < 0 {
		return errors.New("available_slots cannot be negative")
	}
	if r.AvailableSlots > r.TotalSlots {
		return errors.New("available_slots cannot exceed total_slots")
	}
	return nil
}
