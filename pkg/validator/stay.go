package validator

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyDate indicates a date string is empty
	ErrEmptyDate = errors.New("date cannot be empty")

	// ErrInvalidDate indicates a date string is not in YYYY-MM-DD format
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

	// ErrCheckOutNotAfterCheckIn indicates check-out is on or before check-in
	ErrCheckOutNotAfterCheckIn = errors.New("check_out must be after check_in")

	// ErrStayTooLong indicates the stay exceeds the maximum bookable length
	ErrStayTooLong = errors.New("stay cannot exceed the maximum bookable length")
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// StayValidator validates check-in/check-out date pairs
type StayValidator struct {
	maxNights int
}

// NewStayValidator creates a stay validator with the given maximum stay length
func NewStayValidator(maxNights int) *StayValidator {
	if maxNights <= 0 {
		maxNights = 30
	}
	return &StayValidator{maxNights: maxNights}
}

// ParseDate parses a single YYYY-MM-DD date in UTC
func (v *StayValidator) ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseStay parses and validates a check-in/check-out pair.
// The returned range is half-open: the check-out day is not occupied.
func (v *StayValidator) ParseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := v.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	out, err := v.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !out.After(in) {
		return time.Time{}, time.Time{}, ErrCheckOutNotAfterCheckIn
	}

	nights := int(out.Sub(in).Hours() / 24)
	if nights > v.maxNights {
		return time.Time{}, time.Time{}, ErrStayTooLong
	}

	return in, out, nil
}

// Nights returns the number of occupied days for a parsed stay
func (v *StayValidator) Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
