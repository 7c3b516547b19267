package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, user_id, guest_house_id, package_id, check_in, check_out, guests,
	total_price, status, payment_intent_id, special_requests, cancelled_at,
	created_at, updated_at`

// Create inserts a new booking
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, guest_house_id, package_id, check_in, check_out,
			guests, total_price, status, payment_intent_id, special_requests
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.UserID, booking.GuestHouseID, booking.PackageID,
		booking.CheckIn, booking.CheckOut, booking.Guests, booking.TotalPrice,
		booking.Status, booking.PaymentIntentID, booking.SpecialRequests,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by id
func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	if err := r.db.Get(&booking, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// GetByUserID retrieves all bookings for a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}

// List retrieves bookings for the admin console, newest first
func (r *BookingRepository) List(limit, offset int) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// HasOverlapping reports whether a pending or confirmed booking for the guest
// house intersects the half-open stay range [checkIn, checkOut).
func (r *BookingRepository) HasOverlapping(guestHouseID string, checkIn, checkOut time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE guest_house_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND check_in < $3
			  AND check_out > $2
		)`

	var exists bool
	if err := r.db.Get(&exists, query, guestHouseID, checkIn, checkOut); err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}

// UpdateStatus updates the booking status; cancellations record the timestamp
func (r *BookingRepository) UpdateStatus(id string, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2,
			cancelled_at = CASE WHEN $2 = 'cancelled' THEN NOW() ELSE cancelled_at END,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus returns the number of bookings per status
func (r *BookingRepository) CountByStatus() (map[models.BookingStatus]int64, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := map[models.BookingStatus]int64{}
	for rows.Next() {
		var status models.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
