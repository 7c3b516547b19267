package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

type fakeChatStore struct {
	messages []models.ChatMessage
	failing  bool
	nextID   int
}

func (f *fakeChatStore) SaveMessage(sessionID string, sender models.ChatSender, content string) (*models.ChatMessage, error) {
	if f.failing {
		return nil, fmt.Errorf("database down")
	}
	f.nextID++
	msg := models.ChatMessage{
		ID:        fmt.Sprintf("m-%d", f.nextID),
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeChatStore) GetHistory(sessionID string, limit int) ([]models.ChatMessage, error) {
	if f.failing {
		return nil, fmt.Errorf("database down")
	}
	out := []models.ChatMessage{}
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func setupChatTest(t *testing.T) (*ChatService, *fakeChatStore) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	store := &fakeChatStore{}
	return NewChatService(store, nil, log), store
}

func TestChatReply(t *testing.T) {
	service, store := setupChatTest(t)

	t.Run("Keyword Match", func(t *testing.T) {
		msg, err := service.Reply("sess-1", "How do I book a room for June?")
		require.NoError(t, err)
		assert.Equal(t, models.ChatSenderAssistant, msg.Sender)
		assert.Contains(t, msg.Content, "book directly")
	})

	t.Run("Transcript Keeps Both Sides", func(t *testing.T) {
		history, err := service.History("sess-1", 50)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, models.ChatSenderVisitor, history[0].Sender)
		assert.Equal(t, models.ChatSenderAssistant, history[1].Sender)
	})

	t.Run("Fallback Reply", func(t *testing.T) {
		msg, err := service.Reply("sess-1", "zzz unrelated gibberish")
		require.NoError(t, err)
		assert.Contains(t, msg.Content, "Our team will get back to you")
	})

	t.Run("Case Insensitive Match", func(t *testing.T) {
		msg, err := service.Reply("sess-1", "FERRY times to Maafushi?")
		require.NoError(t, err)
		assert.Contains(t, msg.Content, "ferries")
	})

	t.Run("Still Answers When Persistence Fails", func(t *testing.T) {
		store.failing = true
		msg, err := service.Reply("sess-2", "hello there")
		require.NoError(t, err)
		assert.Equal(t, models.ChatSenderAssistant, msg.Sender)
		assert.NotEmpty(t, msg.Content)
	})
}

func TestChatFallbackBuffer(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	primary := &fakeChatStore{failing: true}
	buffer := &fakeChatStore{}
	service := NewChatService(primary, buffer, log)

	t.Run("Messages Spill Into Buffer", func(t *testing.T) {
		msg, err := service.Reply("sess-out", "how much per night?")
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)
		assert.Empty(t, primary.messages)
		require.Len(t, buffer.messages, 2)
		assert.Equal(t, models.ChatSenderVisitor, buffer.messages[0].Sender)
		assert.Equal(t, models.ChatSenderAssistant, buffer.messages[1].Sender)
	})

	t.Run("History Reads From Buffer During Outage", func(t *testing.T) {
		history, err := service.History("sess-out", 50)
		require.NoError(t, err)
		require.Len(t, history, 2)
	})

	t.Run("History Prefers Primary When Healthy", func(t *testing.T) {
		primary.failing = false
		_, err := service.Reply("sess-back", "hello")
		require.NoError(t, err)

		history, err := service.History("sess-back", 50)
		require.NoError(t, err)
		require.Len(t, history, 2)
	})
}
