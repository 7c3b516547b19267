package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
)

const (
	chatWriteTimeout   = 10 * time.Second
	chatPongTimeout    = 60 * time.Second
	chatPingInterval   = 50 * time.Second
	chatMaxMessageSize = 4096

	chatFrameSession = "session"
	chatFrameMessage = "chat_message"
)

// ChatHandler serves the website chat widget over a websocket
type ChatHandler struct {
	chat     *services.ChatService
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewChatHandler creates a new ChatHandler. allowedOrigins mirrors the CORS
// configuration; an empty list accepts any origin.
func NewChatHandler(chat *services.ChatService, allowedOrigins []string, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// Connect handles GET /api/v1/chat/ws
func (h *ChatHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(chatMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(chatPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatPongTimeout))
	})

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	// Writes come from the read loop and the ping ticker.
	var writeMu sync.Mutex
	writeJSON := func(frame models.ChatFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout))
		return conn.WriteJSON(frame)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(chatPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	// Tell the client which session its transcript lives under.
	if err := writeJSON(models.ChatFrame{Type: chatFrameSession, SessionID: sessionID}); err != nil {
		return
	}

	for {
		var frame models.ChatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Debug("Chat connection dropped")
			}
			return
		}

		if frame.Type != chatFrameMessage || strings.TrimSpace(frame.Content) == "" {
			continue
		}

		reply, err := h.chat.Reply(sessionID, frame.Content)
		if err != nil {
			h.logger.WithError(err).Error("Chat reply failed")
			continue
		}

		if err := writeJSON(models.ChatFrame{Type: chatFrameMessage, SessionID: sessionID, Content: reply.Content}); err != nil {
			return
		}
	}
}

// History handles GET /api/v1/chat/history
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		badRequest(c, "session_id is required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	messages, err := h.chat.History(sessionID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load chat history")
		internalError(c, "Failed to load chat history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}
