package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/validator"
)

// AdminHandler serves the admin dashboard and inventory management
type AdminHandler struct {
	users        *database.UserRepository
	guestHouses  *database.GuestHouseRepository
	bookings     *database.BookingRepository
	availability *database.AvailabilityRepository
	logger       *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	users *database.UserRepository,
	guestHouses *database.GuestHouseRepository,
	bookings *database.BookingRepository,
	availability *database.AvailabilityRepository,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:        users,
		guestHouses:  guestHouses,
		bookings:     bookings,
		availability: availability,
		logger:       logger,
	}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	userCount, err := h.users.CountUsers()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count users")
		internalError(c, "Failed to load dashboard")
		return
	}

	guestHouseCount, err := h.guestHouses.Count()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count guest houses")
		internalError(c, "Failed to load dashboard")
		return
	}

	bookingsByStatus, err := h.bookings.CountByStatus()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count bookings")
		internalError(c, "Failed to load dashboard")
		return
	}

	var totalBookings int64
	for _, n := range bookingsByStatus {
		totalBookings += n
	}

	c.JSON(http.StatusOK, gin.H{
		"users":              userCount,
		"guest_houses":       guestHouseCount,
		"bookings":           totalBookings,
		"bookings_by_status": bookingsByStatus,
	})
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)

	users, err := h.users.ListUsers(limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list users")
		internalError(c, "Failed to load users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// UpsertRoomAvailability handles PUT /api/v1/admin/availability/rooms
func (h *AdminHandler) UpsertRoomAvailability(c *gin.Context) {
	var req models.UpsertRoomAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		badRequest(c, "date must use the YYYY-MM-DD format")
		return
	}

	row, err := h.availability.UpsertRoomAvailability(req.GuestHouseID, date, req.TotalRooms, req.AvailableRooms, req.PricePerNight)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upsert room availability")
		internalError(c, "Failed to save availability")
		return
	}

	c.JSON(http.StatusOK, row)
}

// UpsertPackageAvailability handles PUT /api/v1/admin/availability/packages
func (h *AdminHandler) UpsertPackageAvailability(c *gin.Context) {
	var req models.UpsertPackageAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		badRequest(c, "date must use the YYYY-MM-DD format")
		return
	}

	row, err := h.availability.UpsertPackageAvailability(req.PackageID, date, req.TotalSlots, req.AvailableSlots, req.Price)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upsert package availability")
		internalError(c, "Failed to save availability")
		return
	}

	c.JSON(http.StatusOK, row)
}
