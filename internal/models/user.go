package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User represents a traveler or admin account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Country      string    `json:"country" db:"country"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AgentTier labels an agent's commission band
type AgentTier string

const (
	AgentTierStandard AgentTier = "standard"
	AgentTierSilver   AgentTier = "silver"
	AgentTierGold     AgentTier = "gold"
)

// Agent represents a travel agent account linked to a user
type Agent struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	AgencyName     string    `json:"agency_name" db:"agency_name"`
	Tier           AgentTier `json:"tier" db:"tier"`
	CommissionRate float64   `json:"commission_rate" db:"commission_rate"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// UserSession records a login for audit purposes
type UserSession struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	IPAddress string    `json:"ip_address" db:"ip_address"`
	Browser   string    `json:"browser" db:"browser"`
	Platform  string    `json:"platform" db:"platform"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents a traveler registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
}

// LoginRequest represents a credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ParseAgentTier converts a raw string into an AgentTier, rejecting unknown values
func ParseAgentTier(s string) (AgentTier, error) {
	switch AgentTier(s) {
	case AgentTierStandard, AgentTierSilver, AgentTierGold:
		return AgentTier(s), nil
	}
	return "", fmt.Errorf("invalid agent tier: %q", s)
}

// RegisterAgentRequest upgrades a traveler account to an agent account
type RegisterAgentRequest struct {
	AgencyName string `json:"agency_name" binding:"required"`
}

// UpdateAgentTierRequest moves an agent between commission bands
type UpdateAgentTierRequest struct {
	Tier           string  `json:"tier" binding:"required"`
	CommissionRate float64 `json:"commission_rate" binding:"required,gt=0"`
}
