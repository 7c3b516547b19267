package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/middleware"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
)

// AgentHandler serves the travel agent portal endpoints
type AgentHandler struct {
	agents *database.AgentRepository
	logger *logrus.Logger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agents *database.AgentRepository, logger *logrus.Logger) *AgentHandler {
	return &AgentHandler{agents: agents, logger: logger}
}

// Register handles POST /api/v1/agents/register
func (h *AgentHandler) Register(c *gin.Context) {
	var req models.RegisterAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	agent, err := h.agents.Create(userCtx.UserID, req.AgencyName)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "already_agent",
				Message: "An agent profile already exists for this account",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create agent profile")
		internalError(c, "Failed to create agent profile")
		return
	}

	c.JSON(http.StatusCreated, agent)
}

// Me handles GET /api/v1/agents/me
func (h *AgentHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	agent, err := h.agents.GetByUserID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "No agent profile for this account")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch agent profile")
		internalError(c, "Failed to load agent profile")
		return
	}

	c.JSON(http.StatusOK, agent)
}

// UpdateTier handles PUT /api/v1/admin/agents/:id/tier
func (h *AgentHandler) UpdateTier(c *gin.Context) {
	var req models.UpdateAgentTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tier, err := models.ParseAgentTier(req.Tier)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid agent id")
		return
	}

	if err := h.agents.UpdateTier(agentID, tier, req.CommissionRate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Agent not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update agent tier")
		internalError(c, "Failed to update agent")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agent tier updated"})
}
