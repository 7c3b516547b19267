package services

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// ChatStore persists chat transcripts
type ChatStore interface {
	SaveMessage(sessionID string, sender models.ChatSender, content string) (*models.ChatMessage, error)
	GetHistory(sessionID string, limit int) ([]models.ChatMessage, error)
}

// ChatService answers the website chat widget with keyword-matched replies and
// keeps a transcript per visitor session.
type ChatService struct {
	store    ChatStore
	fallback ChatStore
	logger   *logrus.Logger
}

// NewChatService creates a new ChatService. The fallback store, when non-nil,
// buffers transcripts while the primary store is failing.
func NewChatService(store, fallback ChatStore, logger *logrus.Logger) *ChatService {
	return &ChatService{store: store, fallback: fallback, logger: logger}
}

type cannedReply struct {
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"book", "booking", "reserve", "reservation"},
		reply:    "You can book directly from any guest house or package page. Pick your dates and we confirm availability instantly.",
	},
	{
		keywords: []string{"price", "cost", "rate", "how much"},
		reply:    "Rates start around USD 70 per night including breakfast. Each listing shows per-night pricing for your exact dates.",
	},
	{
		keywords: []string{"ferry", "boat", "transfer", "speedboat"},
		reply:    "Public ferries and speedboat transfers run from Male to most islands. Check the Getting Around page for timetables.",
	},
	{
		keywords: []string{"cancel", "refund"},
		reply:    "Bookings can be cancelled from your account page before check-in. Refund timing depends on the payment method.",
	},
	{
		keywords: []string{"dive", "diving", "snorkel", "snorkeling", "manta"},
		reply:    "Most islands have dive centers, and manta and nurse shark snorkeling trips run year round. See the Experiences page.",
	},
	{
		keywords: []string{"visa", "passport"},
		reply:    "Most nationalities receive a free 30-day visa on arrival in the Maldives with a valid passport and onward ticket.",
	},
	{
		keywords: []string{"hello", "hi", "hey", "salaam"},
		reply:    "Hello! Ask me about islands, guest houses, ferries or anything else about traveling the local Maldives.",
	},
}

const fallbackReply = "Thanks for your message! Our team will get back to you shortly. In the meantime, browse our guest houses and packages for ideas."

// Reply stores the visitor message, picks an answer and stores that too.
// Persistence is best effort so the widget keeps answering during an outage,
// with messages spilling into the fallback buffer when the store fails.
func (s *ChatService) Reply(sessionID, content string) (*models.ChatMessage, error) {
	s.save(sessionID, models.ChatSenderVisitor, content)

	answer := matchReply(content)
	if msg := s.save(sessionID, models.ChatSenderAssistant, answer); msg != nil {
		return msg, nil
	}
	return &models.ChatMessage{
		SessionID: sessionID,
		Sender:    models.ChatSenderAssistant,
		Content:   answer,
	}, nil
}

// History returns the transcript for a session, reading from the fallback
// buffer when the primary store is unavailable.
func (s *ChatService) History(sessionID string, limit int) ([]models.ChatMessage, error) {
	messages, err := s.store.GetHistory(sessionID, limit)
	if err != nil && s.fallback != nil {
		s.logger.WithError(err).Warn("Reading chat history from fallback buffer")
		return s.fallback.GetHistory(sessionID, limit)
	}
	return messages, err
}

func (s *ChatService) save(sessionID string, sender models.ChatSender, content string) *models.ChatMessage {
	msg, err := s.store.SaveMessage(sessionID, sender, content)
	if err == nil {
		return msg
	}
	s.logger.WithError(err).WithField("sender", sender).Warn("Failed to persist chat message")
	if s.fallback == nil {
		return nil
	}
	msg, err = s.fallback.SaveMessage(sessionID, sender, content)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to buffer chat message in fallback")
		return nil
	}
	return msg
}

func matchReply(content string) string {
	lowered := strings.ToLower(content)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lowered, kw) {
				return c.reply
			}
		}
	}
	return fallbackReply
}
