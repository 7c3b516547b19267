package database

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ChatRepository persists chat transcripts per visitor session
type ChatRepository struct {
	db DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// SaveMessage appends a message to a session transcript
func (r *ChatRepository) SaveMessage(sessionID string, sender models.ChatSender, content string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.Get(&message, `
		INSERT INTO chat_messages (id, session_id, sender, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, sender, content, created_at`,
		uuid.New().String(), sessionID, sender, content)
	if err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}
	return &message, nil
}

// GetHistory returns the transcript for a session, oldest first
func (r *ChatRepository) GetHistory(sessionID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	messages := []models.ChatMessage{}
	err := r.db.Select(&messages, `
		SELECT id, session_id, sender, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	return messages, nil
}
