package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/storage"
)

// brokenCatalog fails every read, forcing the facade onto its fallback.
type brokenCatalog struct {
	storage.Catalog
}

func (brokenCatalog) ListGuestHouses(models.GuestHouseFilter) ([]models.GuestHouse, error) {
	return nil, errors.New("connection refused")
}

func (brokenCatalog) GetGuestHouse(string) (*models.GuestHouse, error) {
	return nil, errors.New("connection refused")
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func setupCatalogRouter(t *testing.T, primary storage.Catalog) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newTestLogger()
	facade := storage.NewFacade(primary, storage.NewMemory(), storage.Options{OpenTimeout: time.Minute}, logger)
	cache := services.NewCache("", "", 0, time.Minute, logger)
	handler := NewGuestHouseHandler(facade, nil, nil, cache, logger)

	router := gin.New()
	router.GET("/api/v1/guest-houses", handler.List)
	router.GET("/api/v1/guest-houses/:id", handler.Get)
	return router
}

func TestListGuestHouses_Primary(t *testing.T) {
	router := setupCatalogRouter(t, storage.NewMemory())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guest-houses", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "primary", w.Header().Get(DataSourceHeader))

	var body struct {
		GuestHouses []models.GuestHouse `json:"guest_houses"`
		Count       int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(body.GuestHouses), body.Count)
	assert.NotEmpty(t, body.GuestHouses)
}

func TestListGuestHouses_FallbackOnOutage(t *testing.T) {
	router := setupCatalogRouter(t, brokenCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guest-houses", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback", w.Header().Get(DataSourceHeader))

	var body struct {
		GuestHouses []models.GuestHouse `json:"guest_houses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.GuestHouses)
}

func TestListGuestHouses_AtollFilter(t *testing.T) {
	router := setupCatalogRouter(t, storage.NewMemory())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guest-houses?atoll=Kaafu", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		GuestHouses []models.GuestHouse `json:"guest_houses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.GuestHouses)
	for _, gh := range body.GuestHouses {
		assert.Equal(t, "Kaafu", gh.Atoll)
	}
}

func TestGetGuestHouse_NotFound(t *testing.T) {
	router := setupCatalogRouter(t, storage.NewMemory())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guest-houses/no-such-id", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "primary", w.Header().Get(DataSourceHeader))
}

func TestGetGuestHouse_FallbackServesKnownID(t *testing.T) {
	router := setupCatalogRouter(t, brokenCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guest-houses/mem-gh-thoddoo", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback", w.Header().Get(DataSourceHeader))

	var gh models.GuestHouse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gh))
	assert.Equal(t, "Thoddoo Retreat Grand", gh.Name)
}
