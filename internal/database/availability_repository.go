package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ErrNoInventory indicates a conditional decrement found no remaining inventory
// for the requested day.
var ErrNoInventory = errors.New("no inventory available for the requested date")

// AvailabilityRepository handles the per-day inventory rows for guest houses
// and packages.
type AvailabilityRepository struct {
	db DB
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetRoomAvailability returns inventory rows for a guest house over [from, to)
func (r *AvailabilityRepository) GetRoomAvailability(guestHouseID string, from, to time.Time) ([]models.RoomAvailability, error) {
	query := `
		SELECT id, guest_house_id, date, total_rooms, available_rooms,
		       price_per_night, created_at, updated_at
		FROM room_availability
		WHERE guest_house_id = $1 AND date >= $2 AND date < $3
		ORDER BY date`

	rows := []models.RoomAvailability{}
	if err := r.db.Select(&rows, query, guestHouseID, from, to); err != nil {
		return nil, fmt.Errorf("failed to fetch room availability: %w", err)
	}
	return rows, nil
}

// UpsertRoomAvailability creates or replaces the inventory row for one day.
// The 0 <= available <= total invariant is clamped at the database.
func (r *AvailabilityRepository) UpsertRoomAvailability(guestHouseID string, date time.Time, totalRooms, availableRooms int, pricePerNight float64) (*models.RoomAvailability, error) {
	query := `
		INSERT INTO room_availability (
			id, guest_house_id, date, total_rooms, available_rooms, price_per_night
		) VALUES ($1, $2, $3, $4, LEAST(GREATEST($5, 0), $4), $6)
		ON CONFLICT (guest_house_id, date) DO UPDATE SET
			total_rooms = EXCLUDED.total_rooms,
			available_rooms = LEAST(GREATEST(EXCLUDED.available_rooms, 0), EXCLUDED.total_rooms),
			price_per_night = EXCLUDED.price_per_night,
			updated_at = NOW()
		RETURNING id, guest_house_id, date, total_rooms, available_rooms,
		          price_per_night, created_at, updated_at`

	var row models.RoomAvailability
	err := r.db.Get(&row, query, uuid.New().String(), guestHouseID, date, totalRooms, availableRooms, pricePerNight)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert room availability: %w", err)
	}
	return &row, nil
}

// DecrementRoomDay atomically takes one room for a day. The WHERE guard is the
// serialization point: concurrent bookings cannot push available_rooms below zero.
func (r *AvailabilityRepository) DecrementRoomDay(guestHouseID string, date time.Time) error {
	query := `
		UPDATE room_availability
		SET available_rooms = available_rooms - 1, updated_at = NOW()
		WHERE guest_house_id = $1 AND date = $2 AND available_rooms > 0`

	result, err := r.db.Exec(query, guestHouseID, date)
	if err != nil {
		return fmt.Errorf("failed to decrement room availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoInventory
	}
	return nil
}

// IncrementRoomDay returns one room for a day, capped at total_rooms
func (r *AvailabilityRepository) IncrementRoomDay(guestHouseID string, date time.Time) error {
	query := `
		UPDATE room_availability
		SET available_rooms = LEAST(available_rooms + 1, total_rooms), updated_at = NOW()
		WHERE guest_house_id = $1 AND date = $2`

	if _, err := r.db.Exec(query, guestHouseID, date); err != nil {
		return fmt.Errorf("failed to restore room availability: %w", err)
	}
	return nil
}

// RoomPriceForDay returns the per-day price override if an inventory row exists
func (r *AvailabilityRepository) RoomPriceForDay(guestHouseID string, date time.Time) (float64, error) {
	var price float64
	err := r.db.Get(&price, `
		SELECT price_per_night FROM room_availability
		WHERE guest_house_id = $1 AND date = $2`, guestHouseID, date)
	if err != nil {
		return 0, err
	}
	return price, nil
}

// GetPackageAvailability returns slot rows for a package over [from, to)
func (r *AvailabilityRepository) GetPackageAvailability(packageID string, from, to time.Time) ([]models.PackageAvailability, error) {
	query := `
		SELECT id, package_id, date, total_slots, available_slots,
		       price, created_at, updated_at
		FROM package_availability
		WHERE package_id = $1 AND date >= $2 AND date < $3
		ORDER BY date`

	rows := []models.PackageAvailability{}
	if err := r.db.Select(&rows, query, packageID, from, to); err != nil {
		return nil, fmt.Errorf("failed to fetch package availability: %w", err)
	}
	return rows, nil
}

// UpsertPackageAvailability creates or replaces the slot row for one departure day
func (r *AvailabilityRepository) UpsertPackageAvailability(packageID string, date time.Time, totalSlots, availableSlots int, price float64) (*models.PackageAvailability, error) {
	query := `
		INSERT INTO package_availability (
			id, package_id, date, total_slots, available_slots, price
		) VALUES ($1, $2, $3, $4, LEAST(GREATEST($5, 0), $4), $6)
		ON CONFLICT (package_id, date) DO UPDATE SET
			total_slots = EXCLUDED.total_slots,
			available_slots = LEAST(GREATEST(EXCLUDED.available_slots, 0), EXCLUDED.total_slots),
			price = EXCLUDED.price,
			updated_at = NOW()
		RETURNING id, package_id, date, total_slots, available_slots,
		          price, created_at, updated_at`

	var row models.PackageAvailability
	err := r.db.Get(&row, query, uuid.New().String(), packageID, date, totalSlots, availableSlots, price)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert package availability: %w", err)
	}
	return &row, nil
}

// DecrementPackageDay atomically takes one slot for a departure day
func (r *AvailabilityRepository) DecrementPackageDay(packageID string, date time.Time) error {
	query := `
		UPDATE package_availability
		SET available_slots = available_slots - 1, updated_at = NOW()
		WHERE package_id = $1 AND date = $2 AND available_slots > 0`

	result, err := r.db.Exec(query, packageID, date)
	if err != nil {
		return fmt.Errorf("failed to decrement package availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoInventory
	}
	return nil
}

// IncrementPackageDay returns one slot for a departure day, capped at total_slots
func (r *AvailabilityRepository) IncrementPackageDay(packageID string, date time.Time) error {
	query := `
		UPDATE package_availability
		SET available_slots = LEAST(available_slots + 1, total_slots), updated_at = NOW()
		WHERE package_id = $1 AND date = $2`

	if _, err := r.db.Exec(query, packageID, date); err != nil {
		return fmt.Errorf("failed to restore package availability: %w", err)
	}
	return nil
}
