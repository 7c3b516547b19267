package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/storage"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/validator"
)

const guestHouseListCacheKey = "catalog:guest_houses"

// GuestHouseHandler serves the public guest house catalog and the admin CRUD
type GuestHouseHandler struct {
	catalog  *storage.Facade
	repo     *database.GuestHouseRepository
	bookings *services.BookingService
	cache    *services.Cache
	logger   *logrus.Logger
}

// NewGuestHouseHandler creates a new GuestHouseHandler
func NewGuestHouseHandler(
	catalog *storage.Facade,
	repo *database.GuestHouseRepository,
	bookings *services.BookingService,
	cache *services.Cache,
	logger *logrus.Logger,
) *GuestHouseHandler {
	return &GuestHouseHandler{
		catalog:  catalog,
		repo:     repo,
		bookings: bookings,
		cache:    cache,
		logger:   logger,
	}
}

// List handles GET /api/v1/guest-houses
func (h *GuestHouseHandler) List(c *gin.Context) {
	filter := models.GuestHouseFilter{
		Atoll: c.Query("atoll"),
		Query: c.Query("q"),
	}
	if featured := c.Query("featured"); featured != "" {
		value := featured == "true"
		filter.Featured = &value
	}

	// Only the unfiltered listing is cached; filtered reads are cheap and rare.
	unfiltered := filter.Atoll == "" && filter.Featured == nil && filter.Query == ""
	if unfiltered {
		var cached []models.GuestHouse
		if h.cache.GetJSON(c.Request.Context(), guestHouseListCacheKey, &cached) {
			setDataSource(c, storage.SourcePrimary)
			c.JSON(http.StatusOK, gin.H{"guest_houses": cached, "count": len(cached)})
			return
		}
	}

	houses, source, err := h.catalog.ListGuestHouses(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list guest houses")
		internalError(c, "Failed to load guest houses")
		return
	}

	if unfiltered && source == storage.SourcePrimary {
		h.cache.SetJSON(c.Request.Context(), guestHouseListCacheKey, houses)
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"guest_houses": houses, "count": len(houses)})
}

// Get handles GET /api/v1/guest-houses/:id
func (h *GuestHouseHandler) Get(c *gin.Context) {
	gh, source, err := h.catalog.GetGuestHouse(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			setDataSource(c, source)
			notFound(c, "Guest house not found")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch guest house")
		internalError(c, "Failed to load guest house")
		return
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gh)
}

// Availability handles GET /api/v1/guest-houses/:id/availability
func (h *GuestHouseHandler) Availability(c *gin.Context) {
	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")

	result, err := h.bookings.CheckAvailability(c.Param("id"), checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			notFound(c, "Guest house not found")
		case errors.Is(err, validator.ErrEmptyDate),
			errors.Is(err, validator.ErrInvalidDate),
			errors.Is(err, validator.ErrCheckOutNotAfterCheckIn),
			errors.Is(err, validator.ErrStayTooLong):
			badRequest(c, err.Error())
		default:
			h.logger.WithError(err).Error("Availability check failed")
			internalError(c, "Failed to check availability")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create handles POST /api/v1/admin/guest-houses
func (h *GuestHouseHandler) Create(c *gin.Context) {
	var req models.CreateGuestHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	gh, err := h.repo.Create(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create guest house")
		internalError(c, "Failed to create guest house")
		return
	}

	h.cache.Invalidate(c.Request.Context(), guestHouseListCacheKey)
	c.JSON(http.StatusCreated, gh)
}

// Update handles PUT /api/v1/admin/guest-houses/:id
func (h *GuestHouseHandler) Update(c *gin.Context) {
	var req models.UpdateGuestHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	gh, err := h.repo.Update(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Guest house not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update guest house")
		internalError(c, "Failed to update guest house")
		return
	}

	h.cache.Invalidate(c.Request.Context(), guestHouseListCacheKey, fmt.Sprintf("catalog:guest_house:%s", gh.ID))
	c.JSON(http.StatusOK, gh)
}

// Delete handles DELETE /api/v1/admin/guest-houses/:id
func (h *GuestHouseHandler) Delete(c *gin.Context) {
	if err := h.repo.Deactivate(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Guest house not found")
			return
		}
		h.logger.WithError(err).Error("Failed to deactivate guest house")
		internalError(c, "Failed to deactivate guest house")
		return
	}

	h.cache.Invalidate(c.Request.Context(), guestHouseListCacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Guest house deactivated"})
}
