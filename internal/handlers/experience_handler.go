package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/storage"
)

const experienceListCacheKey = "catalog:experiences"

// ExperienceHandler serves the excursion catalog and the admin CRUD
type ExperienceHandler struct {
	catalog *storage.Facade
	repo    *database.ExperienceRepository
	cache   *services.Cache
	logger  *logrus.Logger
}

// NewExperienceHandler creates a new ExperienceHandler
func NewExperienceHandler(catalog *storage.Facade, repo *database.ExperienceRepository, cache *services.Cache, logger *logrus.Logger) *ExperienceHandler {
	return &ExperienceHandler{catalog: catalog, repo: repo, cache: cache, logger: logger}
}

// List handles GET /api/v1/experiences
func (h *ExperienceHandler) List(c *gin.Context) {
	category := c.Query("category")

	if category == "" {
		var cached []models.Experience
		if h.cache.GetJSON(c.Request.Context(), experienceListCacheKey, &cached) {
			setDataSource(c, storage.SourcePrimary)
			c.JSON(http.StatusOK, gin.H{"experiences": cached, "count": len(cached)})
			return
		}
	}

	experiences, source, err := h.catalog.ListExperiences(category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list experiences")
		internalError(c, "Failed to load experiences")
		return
	}

	if category == "" && source == storage.SourcePrimary {
		h.cache.SetJSON(c.Request.Context(), experienceListCacheKey, experiences)
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"experiences": experiences, "count": len(experiences)})
}

// Get handles GET /api/v1/experiences/:id
func (h *ExperienceHandler) Get(c *gin.Context) {
	experience, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Experience not found")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch experience")
		internalError(c, "Failed to load experience")
		return
	}

	c.JSON(http.StatusOK, experience)
}

// Create handles POST /api/v1/admin/experiences
func (h *ExperienceHandler) Create(c *gin.Context) {
	var req models.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	experience, err := h.repo.Create(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create experience")
		internalError(c, "Failed to create experience")
		return
	}

	h.cache.Invalidate(c.Request.Context(), experienceListCacheKey)
	c.JSON(http.StatusCreated, experience)
}

// Update handles PUT /api/v1/admin/experiences/:id
func (h *ExperienceHandler) Update(c *gin.Context) {
	var req models.ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	experience, err := h.repo.Update(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Experience not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update experience")
		internalError(c, "Failed to update experience")
		return
	}

	h.cache.Invalidate(c.Request.Context(), experienceListCacheKey)
	c.JSON(http.StatusOK, experience)
}

// Delete handles DELETE /api/v1/admin/experiences/:id
func (h *ExperienceHandler) Delete(c *gin.Context) {
	if err := h.repo.Deactivate(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Experience not found")
			return
		}
		h.logger.WithError(err).Error("Failed to deactivate experience")
		internalError(c, "Failed to deactivate experience")
		return
	}

	h.cache.Invalidate(c.Request.Context(), experienceListCacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Experience deactivated"})
}
