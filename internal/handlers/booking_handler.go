package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/middleware"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/validator"
)

// BookingHandler handles the traveler checkout flow and the admin booking console
type BookingHandler struct {
	bookings  *services.BookingService
	referrals *services.ReferralService
	logger    *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingService, referrals *services.ReferralService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, referrals: referrals, logger: logger}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookings.CreateBooking(userCtx.UserID.String(), &req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNoInventory), errors.Is(err, services.ErrUnavailable):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "no_availability",
				Message: "The requested dates are no longer available",
			})
		case errors.Is(err, services.ErrNotFound):
			notFound(c, "Guest house or package not found")
		case errors.Is(err, services.ErrValidation),
			errors.Is(err, validator.ErrEmptyDate),
			errors.Is(err, validator.ErrInvalidDate),
			errors.Is(err, validator.ErrCheckOutNotAfterCheckIn),
			errors.Is(err, validator.ErrStayTooLong):
			badRequest(c, err.Error())
		default:
			h.logger.WithError(err).Error("Booking creation failed")
			internalError(c, "Failed to create booking")
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListMine handles GET /api/v1/bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookings, err := h.bookings.ListUserBookings(userCtx.UserID.String())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		internalError(c, "Failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// Get handles GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookings.GetBooking(userCtx.UserID.String(), userCtx.IsAdmin, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			notFound(c, "Booking not found")
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "This booking belongs to another account",
			})
		default:
			internalError(c, "Failed to load booking")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookings.CancelBooking(userCtx.UserID.String(), userCtx.IsAdmin, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			notFound(c, "Booking not found")
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "This booking belongs to another account",
			})
		case errors.Is(err, services.ErrNotCancellable):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "not_cancellable",
				Message: "This booking can no longer be cancelled",
			})
		default:
			h.logger.WithError(err).Error("Booking cancellation failed")
			internalError(c, "Failed to cancel booking")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListAll handles GET /api/v1/admin/bookings
func (h *BookingHandler) ListAll(c *gin.Context) {
	limit, offset := pagination(c)

	bookings, err := h.bookings.ListBookings(limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		internalError(c, "Failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// UpdateStatus handles PUT /api/v1/admin/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, err := models.ParseBookingStatus(req.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Param("id"), status)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(c, "Booking not found")
			return
		}
		h.logger.WithError(err).Error("Booking status update failed")
		internalError(c, "Failed to update booking")
		return
	}

	// Confirming a referred user's first booking releases the referrer reward.
	if status == models.BookingStatusConfirmed {
		userID, parseErr := uuid.Parse(booking.UserID)
		if parseErr == nil {
			if _, rerr := h.referrals.CompleteForBooking(userID, booking.ID, booking.TotalPrice); rerr != nil {
				h.logger.WithError(rerr).Warn("Referral completion failed")
			}
		}
	}

	c.JSON(http.StatusOK, booking)
}
