package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/jwt"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated user's information
type UserContext struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}

// UserLookup resolves a user row for admin re-checks
type UserLookup interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// Authenticator is the single gate for token-protected routes. RequireUser
// validates the bearer token; RequireAdmin additionally re-checks the admin
// flag against the database so a revoked admin loses access before the token
// expires.
type Authenticator struct {
	jwtService *jwt.Service
	users      UserLookup
	logger     *logrus.Logger
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(jwtService *jwt.Service, users UserLookup, logger *logrus.Logger) *Authenticator {
	return &Authenticator{
		jwtService: jwtService,
		users:      users,
		logger:     logger,
	}
}

// RequireUser validates the Authorization bearer token and stores the caller
// identity in the Gin context.
func (a *Authenticator) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		claims, err := a.jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if a.jwtService.IsTokenExpired(tokenString) {
				a.logger.WithField("path", c.Request.URL.Path).Debug("Expired access token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Access token has expired. Please refresh your token.",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				a.logger.WithError(err).WithFields(logrus.Fields{
					"path": c.Request.URL.Path,
					"ip":   c.ClientIP(),
				}).Warn("Rejected invalid access token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid access token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID:  claims.UserID,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		})
		c.Next()
	}
}

// RequireAdmin runs after RequireUser and verifies the admin flag against the
// current user row, not only the token claim.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found. Auth middleware may not be applied.",
				"code":    "MISSING_USER_CONTEXT",
			})
			c.Abort()
			return
		}

		user, err := a.users.GetByID(userCtx.UserID)
		if err != nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You don't have permission to access this resource",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}
	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}
	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after RequireUser)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure RequireUser is applied")
	}
	return userCtx
}
