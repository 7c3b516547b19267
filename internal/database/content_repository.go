package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ContentRepository handles the CMS tables: content_sections and navigation_items
type ContentRepository struct {
	db DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListSections returns all content sections
func (r *ContentRepository) ListSections() ([]models.ContentSection, error) {
	sections := []models.ContentSection{}
	err := r.db.Select(&sections, `
		SELECT id, section_key, title, body, updated_at
		FROM content_sections
		ORDER BY section_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list content sections: %w", err)
	}
	return sections, nil
}

// GetSection returns one content section by key
func (r *ContentRepository) GetSection(sectionKey string) (*models.ContentSection, error) {
	var section models.ContentSection
	err := r.db.Get(&section, `
		SELECT id, section_key, title, body, updated_at
		FROM content_sections
		WHERE section_key = $1`, sectionKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch content section: %w", err)
	}
	return &section, nil
}

// UpsertSection creates or replaces a content section
func (r *ContentRepository) UpsertSection(sectionKey, title, body string) (*models.ContentSection, error) {
	query := `
		INSERT INTO content_sections (id, section_key, title, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (section_key) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			updated_at = NOW()
		RETURNING id, section_key, title, body, updated_at`

	var section models.ContentSection
	err := r.db.Get(&section, query, uuid.New().String(), sectionKey, title, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert content section: %w", err)
	}
	return &section, nil
}

// ListNavigation returns active navigation items in menu order
func (r *ContentRepository) ListNavigation() ([]models.NavigationItem, error) {
	items := []models.NavigationItem{}
	err := r.db.Select(&items, `
		SELECT id, label, href, sort_order, is_active, created_at, updated_at
		FROM navigation_items
		WHERE is_active = true
		ORDER BY sort_order, label`)
	if err != nil {
		return nil, fmt.Errorf("failed to list navigation items: %w", err)
	}
	return items, nil
}

// CreateNavigationItem inserts a new menu entry
func (r *ContentRepository) CreateNavigationItem(req *models.NavigationItemRequest) (*models.NavigationItem, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var item models.NavigationItem
	err := r.db.Get(&item, `
		INSERT INTO navigation_items (id, label, href, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, label, href, sort_order, is_active, created_at, updated_at`,
		uuid.New().String(), req.Label, req.Href, req.SortOrder, isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigation item: %w", err)
	}
	return &item, nil
}

// UpdateNavigationItem replaces a menu entry
func (r *ContentRepository) UpdateNavigationItem(id string, req *models.NavigationItemRequest) (*models.NavigationItem, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var item models.NavigationItem
	err := r.db.Get(&item, `
		UPDATE navigation_items
		SET label = $2, href = $3, sort_order = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, label, href, sort_order, is_active, created_at, updated_at`,
		id, req.Label, req.Href, req.SortOrder, isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update navigation item: %w", err)
	}
	return &item, nil
}

// DeleteNavigationItem removes a menu entry
func (r *ContentRepository) DeleteNavigationItem(id string) error {
	result, err := r.db.Exec(`DELETE FROM navigation_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete navigation item: %w", err)
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
