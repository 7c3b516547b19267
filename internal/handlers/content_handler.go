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

const (
	contentListCacheKey = "cms:sections"
	navigationCacheKey  = "cms:navigation"
)

// ContentHandler serves CMS sections and the navigation menu
type ContentHandler struct {
	catalog *storage.Facade
	repo    *database.ContentRepository
	cache   *services.Cache
	logger  *logrus.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(catalog *storage.Facade, repo *database.ContentRepository, cache *services.Cache, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{catalog: catalog, repo: repo, cache: cache, logger: logger}
}

// ListSections handles GET /api/v1/content
func (h *ContentHandler) ListSections(c *gin.Context) {
	var cached []models.ContentSection
	if h.cache.GetJSON(c.Request.Context(), contentListCacheKey, &cached) {
		setDataSource(c, storage.SourcePrimary)
		c.JSON(http.StatusOK, gin.H{"sections": cached, "count": len(cached)})
		return
	}

	sections, source, err := h.catalog.ListContentSections()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list content sections")
		internalError(c, "Failed to load content")
		return
	}

	if source == storage.SourcePrimary {
		h.cache.SetJSON(c.Request.Context(), contentListCacheKey, sections)
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"sections": sections, "count": len(sections)})
}

// GetSection handles GET /api/v1/content/:key
func (h *ContentHandler) GetSection(c *gin.Context) {
	section, source, err := h.catalog.GetContentSection(c.Param("key"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			setDataSource(c, source)
			notFound(c, "Content section not found")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch content section")
		internalError(c, "Failed to load content")
		return
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, section)
}

// UpsertSection handles PUT /api/v1/admin/content/:key
func (h *ContentHandler) UpsertSection(c *gin.Context) {
	var req models.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	section, err := h.repo.UpsertSection(c.Param("key"), req.Title, req.Body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upsert content section")
		internalError(c, "Failed to save content")
		return
	}

	h.cache.Invalidate(c.Request.Context(), contentListCacheKey)
	c.JSON(http.StatusOK, section)
}

// ListNavigation handles GET /api/v1/navigation
func (h *ContentHandler) ListNavigation(c *gin.Context) {
	var cached []models.NavigationItem
	if h.cache.GetJSON(c.Request.Context(), navigationCacheKey, &cached) {
		setDataSource(c, storage.SourcePrimary)
		c.JSON(http.StatusOK, gin.H{"items": cached, "count": len(cached)})
		return
	}

	items, source, err := h.catalog.ListNavigation()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list navigation items")
		internalError(c, "Failed to load navigation")
		return
	}

	if source == storage.SourcePrimary {
		h.cache.SetJSON(c.Request.Context(), navigationCacheKey, items)
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// CreateNavigationItem handles POST /api/v1/admin/navigation
func (h *ContentHandler) CreateNavigationItem(c *gin.Context) {
	var req models.NavigationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.repo.CreateNavigationItem(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create navigation item")
		internalError(c, "Failed to create navigation item")
		return
	}

	h.cache.Invalidate(c.Request.Context(), navigationCacheKey)
	c.JSON(http.StatusCreated, item)
}

// UpdateNavigationItem handles PUT /api/v1/admin/navigation/:id
func (h *ContentHandler) UpdateNavigationItem(c *gin.Context) {
	var req models.NavigationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.repo.UpdateNavigationItem(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Navigation item not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update navigation item")
		internalError(c, "Failed to update navigation item")
		return
	}

	h.cache.Invalidate(c.Request.Context(), navigationCacheKey)
	c.JSON(http.StatusOK, item)
}

// DeleteNavigationItem handles DELETE /api/v1/admin/navigation/:id
func (h *ContentHandler) DeleteNavigationItem(c *gin.Context) {
	if err := h.repo.DeleteNavigationItem(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Navigation item not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete navigation item")
		internalError(c, "Failed to delete navigation item")
		return
	}

	h.cache.Invalidate(c.Request.Context(), navigationCacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Navigation item deleted"})
}
