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

const packageListCacheKey = "catalog:packages"

// PackageHandler serves the public package catalog and the admin CRUD
type PackageHandler struct {
	catalog *storage.Facade
	repo    *database.PackageRepository
	cache   *services.Cache
	logger  *logrus.Logger
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(catalog *storage.Facade, repo *database.PackageRepository, cache *services.Cache, logger *logrus.Logger) *PackageHandler {
	return &PackageHandler{catalog: catalog, repo: repo, cache: cache, logger: logger}
}

// List handles GET /api/v1/packages
func (h *PackageHandler) List(c *gin.Context) {
	var cached []models.Package
	if h.cache.GetJSON(c.Request.Context(), packageListCacheKey, &cached) {
		setDataSource(c, storage.SourcePrimary)
		c.JSON(http.StatusOK, gin.H{"packages": cached, "count": len(cached)})
		return
	}

	packages, source, err := h.catalog.ListPackages()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list packages")
		internalError(c, "Failed to load packages")
		return
	}

	if source == storage.SourcePrimary {
		h.cache.SetJSON(c.Request.Context(), packageListCacheKey, packages)
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, gin.H{"packages": packages, "count": len(packages)})
}

// Get handles GET /api/v1/packages/:id
func (h *PackageHandler) Get(c *gin.Context) {
	pkg, source, err := h.catalog.GetPackage(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			setDataSource(c, source)
			notFound(c, "Package not found")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch package")
		internalError(c, "Failed to load package")
		return
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, pkg)
}

// Create handles POST /api/v1/admin/packages
func (h *PackageHandler) Create(c *gin.Context) {
	var req models.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	pkg, err := h.repo.Create(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create package")
		internalError(c, "Failed to create package")
		return
	}

	h.cache.Invalidate(c.Request.Context(), packageListCacheKey)
	c.JSON(http.StatusCreated, pkg)
}

// Update handles PUT /api/v1/admin/packages/:id
func (h *PackageHandler) Update(c *gin.Context) {
	var req models.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	pkg, err := h.repo.Update(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Package not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update package")
		internalError(c, "Failed to update package")
		return
	}

	h.cache.Invalidate(c.Request.Context(), packageListCacheKey)
	c.JSON(http.StatusOK, pkg)
}

// Delete handles DELETE /api/v1/admin/packages/:id
func (h *PackageHandler) Delete(c *gin.Context) {
	if err := h.repo.Deactivate(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(c, "Package not found")
			return
		}
		h.logger.WithError(err).Error("Failed to deactivate package")
		internalError(c, "Failed to deactivate package")
		return
	}

	h.cache.Invalidate(c.Request.Context(), packageListCacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Package deactivated"})
}
