package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ExperienceRepository handles the experiences table
type ExperienceRepository struct {
	db DB
}

// NewExperienceRepository creates a new ExperienceRepository
func NewExperienceRepository(db DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

const experienceColumns = `
	id, name, description, category, price, duration_hours, max_guests,
	images, is_active, featured, created_at, updated_at`

// List returns active experiences, optionally filtered by category
func (r *ExperienceRepository) List(category string) ([]models.Experience, error) {
	experiences := []models.Experience{}
	query := `SELECT` + experienceColumns + ` FROM experiences WHERE is_active = true`
	args := []interface{}{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	if err := r.db.Select(&experiences, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return experiences, nil
}

// GetByID returns a single experience
func (r *ExperienceRepository) GetByID(id string) (*models.Experience, error) {
	var experience models.Experience
	err := r.db.Get(&experience, `SELECT`+experienceColumns+`
		FROM experiences WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	return &experience, nil
}

// Create inserts a new experience
func (r *ExperienceRepository) Create(req *models.ExperienceRequest) (*models.Experience, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var experience models.Experience
	err := r.db.Get(&experience, `
		INSERT INTO experiences (
			id, name, description, category, price, duration_hours,
			max_guests, images, is_active, featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING`+experienceColumns,
		uuid.New().String(), req.Name, req.Description, req.Category,
		req.Price, req.DurationHours, req.MaxGuests,
		pq.StringArray(req.Images), isActive, req.Featured)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	return &experience, nil
}

// Update replaces an experience
func (r *ExperienceRepository) Update(id string, req *models.ExperienceRequest) (*models.Experience, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var experience models.Experience
	err := r.db.Get(&experience, `
		UPDATE experiences
		SET name = $2, description = $3, category = $4, price = $5,
			duration_hours = $6, max_guests = $7, images = $8, is_active = $9,
			featured = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING`+experienceColumns,
		id, req.Name, req.Description, req.Category, req.Price,
		req.DurationHours, req.MaxGuests, pq.StringArray(req.Images),
		isActive, req.Featured)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update experience: %w", err)
	}
	return &experience, nil
}

// Deactivate soft deletes an experience
func (r *ExperienceRepository) Deactivate(id string) error {
	result, err := r.db.Exec(`
		UPDATE experiences SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate experience: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
