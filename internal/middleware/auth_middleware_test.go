package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/jwt"
)

type fakeUserLookup struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserLookup) GetByID(id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func setupAuthTest(t *testing.T) (*gin.Engine, *jwt.Service, *fakeUserLookup) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	lookup := &fakeUserLookup{users: map[uuid.UUID]*models.User{}}
	auth := NewAuthenticator(jwtService, lookup, log)

	router := gin.New()
	router.GET("/me", auth.RequireUser(), func(c *gin.Context) {
		userCtx := MustGetUserContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userCtx.UserID})
	})
	router.GET("/admin", auth.RequireUser(), auth.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router, jwtService, lookup
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	router, jwtService, lookup := setupAuthTest(t)

	userID := uuid.New()
	lookup.users[userID] = &models.User{ID: userID, Email: "aminath@example.com"}

	t.Run("Valid Token", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "aminath@example.com", false)
		require.NoError(t, err)

		w := doRequest(router, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("Missing Header", func(t *testing.T) {
		w := doRequest(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("Bad Format", func(t *testing.T) {
		w := doRequest(router, "/me", "Token abc123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("Garbage Token", func(t *testing.T) {
		w := doRequest(router, "/me", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("Expired Token", func(t *testing.T) {
		shortLived := jwt.NewService("access-secret", "refresh-secret", -time.Minute, time.Hour)
		token, err := shortLived.GenerateAccessToken(userID, "aminath@example.com", false)
		require.NoError(t, err)

		w := doRequest(router, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("Refresh Token Rejected On Access Route", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(userID, "aminath@example.com")
		require.NoError(t, err)

		w := doRequest(router, "/me", "Bearer "+refresh)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	router, jwtService, lookup := setupAuthTest(t)

	adminID := uuid.New()
	userID := uuid.New()
	lookup.users[adminID] = &models.User{ID: adminID, Email: "admin@niyalitravel.com", IsAdmin: true}
	lookup.users[userID] = &models.User{ID: userID, Email: "traveler@example.com"}

	t.Run("Admin Allowed", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(adminID, "admin@niyalitravel.com", true)
		require.NoError(t, err)

		w := doRequest(router, "/admin", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Non Admin Rejected", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "traveler@example.com", false)
		require.NoError(t, err)

		w := doRequest(router, "/admin", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Revoked Admin Claim Rejected", func(t *testing.T) {
		// Token still says admin, but the user row no longer does.
		token, err := jwtService.GenerateAccessToken(userID, "traveler@example.com", true)
		require.NoError(t, err)

		w := doRequest(router, "/admin", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Deleted User Rejected", func(t *testing.T) {
		ghostID := uuid.New()
		token, err := jwtService.GenerateAccessToken(ghostID, "ghost@example.com", true)
		require.NoError(t, err)

		w := doRequest(router, "/admin", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
