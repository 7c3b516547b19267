package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// UserRepository handles database operations for the users and user_sessions tables
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, password_hash, first_name, last_name, country, is_admin,
	created_at, updated_at`

// CreateUser inserts a new user with a pre-hashed password
func (r *UserRepository) CreateUser(email, passwordHash, firstName, lastName, country string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + userColumns

	var user models.User
	err := r.db.Get(&user, query, uuid.New(), email, passwordHash, firstName, lastName, country)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	if err := r.db.Get(&user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	if err := r.db.Get(&user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// RecordSession stores a login session for audit purposes
func (r *UserRepository) RecordSession(session *models.UserSession) error {
	query := `
		INSERT INTO user_sessions (id, user_id, ip_address, browser, platform, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	err := r.db.QueryRow(query,
		session.ID, session.UserID, session.IPAddress,
		session.Browser, session.Platform, session.UserAgent,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// ListUsers retrieves users for the admin console, newest first
func (r *UserRepository) ListUsers(limit, offset int) ([]models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	users := []models.User{}
	if err := r.db.Select(&users, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the total number of users
func (r *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
