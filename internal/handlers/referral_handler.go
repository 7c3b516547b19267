package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/middleware"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
)

// ReferralHandler serves the referral program endpoints
type ReferralHandler struct {
	referrals *services.ReferralService
	logger    *logrus.Logger
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referrals *services.ReferralService, logger *logrus.Logger) *ReferralHandler {
	return &ReferralHandler{referrals: referrals, logger: logger}
}

// MyCode handles GET /api/v1/referrals/code
func (h *ReferralHandler) MyCode(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	code, err := h.referrals.GetOrCreateCode(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load referral code")
		internalError(c, "Failed to load referral code")
		return
	}

	c.JSON(http.StatusOK, code)
}

// Redeem handles POST /api/v1/referrals/redeem
func (h *ReferralHandler) Redeem(c *gin.Context) {
	var req models.RedeemReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	referral, err := h.referrals.Redeem(userCtx.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReferralCode):
			badRequest(c, err.Error())
		case errors.Is(err, services.ErrSelfReferral),
			errors.Is(err, services.ErrAlreadyReferred):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "referral_rejected",
				Message: err.Error(),
			})
		default:
			h.logger.WithError(err).Error("Referral redemption failed")
			internalError(c, "Failed to redeem referral code")
		}
		return
	}

	c.JSON(http.StatusCreated, referral)
}

// MyRewards handles GET /api/v1/referrals/rewards
func (h *ReferralHandler) MyRewards(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	rewards, err := h.referrals.ListRewards(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list rewards")
		internalError(c, "Failed to load rewards")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards, "count": len(rewards)})
}

// Stats handles GET /api/v1/referrals/stats
func (h *ReferralHandler) Stats(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	stats, err := h.referrals.Stats(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load referral stats")
		internalError(c, "Failed to load referral stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListAllRewards handles GET /api/v1/admin/rewards
func (h *ReferralHandler) ListAllRewards(c *gin.Context) {
	limit, offset := pagination(c)

	rewards, err := h.referrals.ListAllRewards(limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list all rewards")
		internalError(c, "Failed to load rewards")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards, "count": len(rewards)})
}

// UpdateRewardStatus handles PUT /api/v1/admin/rewards/:id/status
func (h *ReferralHandler) UpdateRewardStatus(c *gin.Context) {
	var req models.UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.referrals.UpdateRewardStatus(c.Param("id"), req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			notFound(c, "Reward not found")
		case errors.Is(err, models.ErrInvalidRewardStatus):
			badRequest(c, err.Error())
		default:
			h.logger.WithError(err).Error("Reward status update failed")
			internalError(c, "Failed to update reward")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward updated"})
}
