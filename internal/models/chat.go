package models

import "time"

// ChatSender identifies who wrote a chat message
type ChatSender string

const (
	ChatSenderVisitor   ChatSender = "visitor"
	ChatSenderAssistant ChatSender = "assistant"
)

// ChatMessage is a persisted message on the website chat widget
type ChatMessage struct {
	ID        string     `json:"id" db:"id"`
	SessionID string     `json:"session_id" db:"session_id"`
	Sender    ChatSender `json:"sender" db:"sender"`
	Content   string     `json:"content" db:"content"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ChatFrame is the JSON frame exchanged over the websocket
type ChatFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}
