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

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	auth   *services.AuthService
	logger *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.auth.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "email_taken",
				Message: "An account with this email already exists",
			})
			return
		}
		h.logger.WithError(err).Error("Registration failed")
		internalError(c, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, false)
}

// AdminLogin handles POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *AuthHandler) login(c *gin.Context, admin bool) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var (
		resp *models.AuthResponse
		err  error
	)
	if admin {
		resp, err = h.auth.AdminLogin(&req, c.ClientIP(), c.Request.UserAgent())
	} else {
		resp, err = h.auth.Login(&req, c.ClientIP(), c.Request.UserAgent())
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Invalid email or password",
			})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "This account does not have admin access",
			})
		default:
			h.logger.WithError(err).Error("Login failed")
			internalError(c, "Failed to sign in")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Refresh token is invalid or expired",
			})
			return
		}
		h.logger.WithError(err).Error("Token refresh failed")
		internalError(c, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.auth.GetUser(userCtx.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(c, "Account not found")
			return
		}
		internalError(c, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, user)
}
