package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// GuestHouseRepository handles database operations for the guest_houses table
type GuestHouseRepository struct {
	db DB
}

// NewGuestHouseRepository creates a new GuestHouseRepository
func NewGuestHouseRepository(db DB) *GuestHouseRepository {
	return &GuestHouseRepository{db: db}
}

const guestHouseColumns = `
	id, name, description, atoll, island, price_per_night, max_guests,
	rating, amenities, images, is_active, featured, created_at, updated_at`

// List returns active guest houses matching the filter
func (r *GuestHouseRepository) List(filter models.GuestHouseFilter) ([]models.GuestHouse, error) {
	query := `SELECT` + guestHouseColumns + `
		FROM guest_houses
		WHERE is_active = true`

	args := []interface{}{}
	idx := 1

	if filter.Atoll != "" {
		query += fmt.Sprintf(" AND atoll = $%d", idx)
		args = append(args, filter.Atoll)
		idx++
	}
	if filter.Featured != nil {
		query += fmt.Sprintf(" AND featured = $%d", idx)
		args = append(args, *filter.Featured)
		idx++
	}
	if filter.Query != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR island ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Query+"%")
		idx++
	}

	query += " ORDER BY featured DESC, rating DESC, name"

	houses := []models.GuestHouse{}
	if err := r.db.Select(&houses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list guest houses: %w", err)
	}
	return houses, nil
}

// GetByID returns a guest house by id
func (r *GuestHouseRepository) GetByID(id string) (*models.GuestHouse, error) {
	query := `SELECT` + guestHouseColumns + `
		FROM guest_houses
		WHERE id = $1`

	var gh models.GuestHouse
	if err := r.db.Get(&gh, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch guest house: %w", err)
	}
	return &gh, nil
}

// Create inserts a new guest house
func (r *GuestHouseRepository) Create(req *models.CreateGuestHouseRequest) (*models.GuestHouse, error) {
	query := `
		INSERT INTO guest_houses (
			id, name, description, atoll, island, price_per_night,
			max_guests, amenities, images, is_active, featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10)
		RETURNING` + guestHouseColumns

	var gh models.GuestHouse
	err := r.db.Get(&gh, query,
		uuid.New().String(), req.Name, req.Description, req.Atoll, req.Island,
		req.PricePerNight, req.MaxGuests,
		pq.StringArray(req.Amenities), pq.StringArray(req.Images), req.Featured,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest house: %w", err)
	}
	return &gh, nil
}

// Update applies a partial update to a guest house
func (r *GuestHouseRepository) Update(id string, req *models.UpdateGuestHouseRequest) (*models.GuestHouse, error) {
	query := `
		UPDATE guest_houses SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			atoll = COALESCE($4, atoll),
			island = COALESCE($5, island),
			price_per_night = COALESCE($6, price_per_night),
			max_guests = COALESCE($7, max_guests),
			amenities = COALESCE($8, amenities),
			images = COALESCE($9, images),
			is_active = COALESCE($10, is_active),
			featured = COALESCE($11, featured),
			updated_at = NOW()
		WHERE id = $1
		RETURNING` + guestHouseColumns

	var amenities, images interface{}
	if req.Amenities != nil {
		amenities = pq.StringArray(req.Amenities)
	}
	if req.Images != nil {
		images = pq.StringArray(req.Images)
	}

	var gh models.GuestHouse
	err := r.db.Get(&gh, query,
		id, req.Name, req.Description, req.Atoll, req.Island,
		req.PricePerNight, req.MaxGuests, amenities, images,
		req.IsActive, req.Featured,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update guest house: %w", err)
	}
	return &gh, nil
}

// Deactivate soft-deletes a guest house; rows are never hard-deleted
func (r *GuestHouseRepository) Deactivate(id string) error {
	result, err := r.db.Exec(`UPDATE guest_houses SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate guest house: %w", err)
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

// Count returns the number of active guest houses
func (r *GuestHouseRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM guest_houses WHERE is_active = true`); err != nil {
		return 0, fmt.Errorf("failed to count guest houses: %w", err)
	}
	return count, nil
}
