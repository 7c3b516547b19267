package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// AgentRepository handles database operations for the agents table
type AgentRepository struct {
	db DB
}

// NewAgentRepository creates a new AgentRepository
func NewAgentRepository(db DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `
	id, user_id, agency_name, tier, commission_rate, created_at, updated_at`

// Create registers a user as a travel agent at the standard tier
func (r *AgentRepository) Create(userID uuid.UUID, agencyName string) (*models.Agent, error) {
	query := `
		INSERT INTO agents (id, user_id, agency_name, tier, commission_rate)
		VALUES ($1, $2, $3, 'standard', 10.0)
		RETURNING` + agentColumns

	var agent models.Agent
	if err := r.db.Get(&agent, query, uuid.New(), userID, agencyName); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return &agent, nil
}

// GetByUserID retrieves the agent profile linked to a user
func (r *AgentRepository) GetByUserID(userID uuid.UUID) (*models.Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents WHERE user_id = $1`

	var agent models.Agent
	if err := r.db.Get(&agent, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch agent: %w", err)
	}
	return &agent, nil
}

// UpdateTier moves an agent to a new tier with the matching commission rate
func (r *AgentRepository) UpdateTier(agentID uuid.UUID, tier models.AgentTier, commissionRate float64) error {
	result, err := r.db.Exec(`
		UPDATE agents SET tier = $2, commission_rate = $3, updated_at = NOW()
		WHERE id = $1`, agentID, tier, commissionRate)
	if err != nil {
		return fmt.Errorf("failed to update agent tier: %w", err)
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
