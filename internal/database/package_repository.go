package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// PackageRepository handles database operations for the packages table
type PackageRepository struct {
	db DB
}

// NewPackageRepository creates a new PackageRepository
func NewPackageRepository(db DB) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `
	id, name, description, price, duration, max_guests, inclusions,
	exclusions, is_active, featured, created_at, updated_at`

// List returns active packages
func (r *PackageRepository) List() ([]models.Package, error) {
	query := `SELECT` + packageColumns + `
		FROM packages
		WHERE is_active = true
		ORDER BY featured DESC, name`

	packages := []models.Package{}
	if err := r.db.Select(&packages, query); err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// GetByID returns a package by id
func (r *PackageRepository) GetByID(id string) (*models.Package, error) {
	query := `SELECT` + packageColumns + ` FROM packages WHERE id = $1`

	var pkg models.Package
	if err := r.db.Get(&pkg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch package: %w", err)
	}
	return &pkg, nil
}

// Create inserts a new package
func (r *PackageRepository) Create(req *models.CreatePackageRequest) (*models.Package, error) {
	query := `
		INSERT INTO packages (
			id, name, description, price, duration, max_guests,
			inclusions, exclusions, is_active, featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9)
		RETURNING` + packageColumns

	var pkg models.Package
	err := r.db.Get(&pkg, query,
		uuid.New().String(), req.Name, req.Description, req.Price, req.Duration,
		req.MaxGuests, pq.StringArray(req.Inclusions), pq.StringArray(req.Exclusions),
		req.Featured,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return &pkg, nil
}

// Update applies a partial update to a package
func (r *PackageRepository) Update(id string, req *models.UpdatePackageRequest) (*models.Package, error) {
	query := `
		UPDATE packages SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			duration = COALESCE($5, duration),
			max_guests = COALESCE($6, max_guests),
			inclusions = COALESCE($7, inclusions),
			exclusions = COALESCE($8, exclusions),
			is_active = COALESCE($9, is_active),
			featured = COALESCE($10, featured),
			updated_at = NOW()
		WHERE id = $1
		RETURNING` + packageColumns

	var inclusions, exclusions interface{}
	if req.Inclusions != nil {
		inclusions = pq.StringArray(req.Inclusions)
	}
	if req.Exclusions != nil {
		exclusions = pq.StringArray(req.Exclusions)
	}

	var pkg models.Package
	err := r.db.Get(&pkg, query,
		id, req.Name, req.Description, req.Price, req.Duration, req.MaxGuests,
		inclusions, exclusions, req.IsActive, req.Featured,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	return &pkg, nil
}

// Deactivate soft-deletes a package
func (r *PackageRepository) Deactivate(id string) error {
	result, err := r.db.Exec(`UPDATE packages SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate package: %w", err)
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
