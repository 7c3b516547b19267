package models

import (
	"errors"
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus converts a raw string into a BookingStatus, rejecting unknown values
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("invalid booking status: %q", s)
}

// Booking represents a stay reservation for a guest house or a package departure.
// Exactly one of GuestHouseID / PackageID is set.
type Booking struct {
	ID              string        `json:"id" db:"id"`
	UserID          string        `json:"user_id" db:"user_id"`
	GuestHouseID    *string       `json:"guest_house_id,omitempty" db:"guest_house_id"`
	PackageID       *string       `json:"package_id,omitempty" db:"package_id"`
	CheckIn         time.Time     `json:"check_in" db:"check_in"`
	CheckOut        time.Time     `json:"check_out" db:"check_out"`
	Guests          int           `json:"guests" db:"guests"`
	TotalPrice      float64       `json:"total_price" db:"total_price"`
	Status          BookingStatus `json:"status" db:"status"`
	PaymentIntentID *string       `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	SpecialRequests *string       `json:"special_requests,omitempty" db:"special_requests"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateBookingRequest represents the traveler checkout request
type CreateBookingRequest struct {
	GuestHouseID    *string `json:"guest_house_id,omitempty"`
	PackageID       *string `json:"package_id,omitempty"`
	CheckIn         string  `json:"check_in" binding:"required"`
	CheckOut        string  `json:"check_out" binding:"required"`
	Guests          int     `json:"guests" binding:"required,min=1"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// UpdateBookingStatusRequest represents the admin status mutation
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Validate validates the create booking request shape
func (r *CreateBookingRequest) Validate() error {
	if r.GuestHouseID == nil && r.PackageID == nil {
		return errors.New("either guest_house_id or package_id is required")
	}
	if r.GuestHouseID != nil && r.PackageID != nil {
		return errors.New("guest_house_id and package_id are mutually exclusive")
	}
	if r.Guests < 1 {
		return errors.New("guests must be at least 1")
	}
	return nil
}

// Nights returns the number of inventory days the stay occupies, [check_in, check_out)
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// CanBeCancelled reports whether the booking is still cancellable
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// Overlaps reports whether the stay intersects the half-open range [from, to)
func (b *Booking) Overlaps(from, to time.Time) bool {
	return b.CheckIn.Before(to) && b.CheckOut.After(from)
}
