package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/storage"
)

// ScheduleHandler serves ferry and domestic flight timetables
type ScheduleHandler struct {
	catalog *storage.Facade
	repo    *database.ScheduleRepository
	logger  *logrus.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(catalog *storage.Facade, repo *database.ScheduleRepository, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{catalog: catalog, repo: repo, logger: logger}
}

// ListFerries handles GET /api/v1/schedules/ferries
func (h *ScheduleHandler) ListFerries(c *gin.Context) {
	ferries, source, err := h.catalog.ListFerrySchedules()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ferry schedules")
		internalError(c, "Failed to load ferry schedules")
		return
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"ferries": ferries, "count": len(ferries)})
}

// ListFlights handles GET /api/v1/schedules/flights
func (h *ScheduleHandler) ListFlights(c *gin.Context) {
	flights, source, err := h.catalog.ListAirlineSchedules()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list airline schedules")
		internalError(c, "Failed to load airline schedules")
		return
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"flights": flights, "count": len(flights)})
}

// CreateFerry handles POST /api/v1/admin/schedules/ferries
func (h *ScheduleHandler) CreateFerry(c *gin.Context) {
	var req models.FerryScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ferry, err := h.repo.CreateFerry(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create ferry schedule")
		internalError(c, "Failed to create ferry schedule")
		return
	}

	c.JSON(http.StatusCreated, ferry)
}

// UpdateFerry handles PUT /api/v1/admin/schedules/ferries/:id
func (h *ScheduleHandler) UpdateFerry(c *gin.Context) {
	var req models.FerryScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ferry, err := h.repo.UpdateFerry(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Ferry schedule not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update ferry schedule")
		internalError(c, "Failed to update ferry schedule")
		return
	}

	c.JSON(http.StatusOK, ferry)
}

// CreateFlight handles POST /api/v1/admin/schedules/flights
func (h *ScheduleHandler) CreateFlight(c *gin.Context) {
	var req models.AirlineScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	flight, err := h.repo.CreateFlight(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create airline schedule")
		internalError(c, "Failed to create airline schedule")
		return
	}

	c.JSON(http.StatusCreated, flight)
}

// UpdateFlight handles PUT /api/v1/admin/schedules/flights/:id
func (h *ScheduleHandler) UpdateFlight(c *gin.Context) {
	var req models.AirlineScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	flight, err := h.repo.UpdateFlight(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Airline schedule not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update airline schedule")
		internalError(c, "Failed to update airline schedule")
		return
	}

	c.JSON(http.StatusOK, flight)
}
