package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/models"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/jwt"
)

var (
	// ErrInvalidCredentials indicates a bad email/password pair
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates the email is already registered
	ErrEmailTaken = errors.New("email is already registered")
)

// UserStore is the account surface the auth flow needs
type UserStore interface {
	CreateUser(email, passwordHash, firstName, lastName, country string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id uuid.UUID) (*models.User, error)
	RecordSession(session *models.UserSession) error
}

// AuthService handles registration, credential login and token refresh
type AuthService struct {
	users      UserStore
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a traveler account and returns a signed token pair
func (s *AuthService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(email, string(hash), req.FirstName, req.LastName, req.Country)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return s.issueTokens(user)
}

// Login verifies credentials and records the session for audit
func (s *AuthService) Login(req *models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.recordSession(user.ID, ipAddress, userAgent)
	return s.issueTokens(user)
}

// AdminLogin verifies credentials and requires the admin flag
func (s *AuthService) AdminLogin(req *models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, error) {
	resp, err := s.Login(req, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if !resp.User.IsAdmin {
		return nil, ErrForbidden
	}
	return resp, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The user row
// is reloaded so a revoked admin flag takes effect immediately.
func (s *AuthService) Refresh(refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// GetUser loads a user by id
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		User:         user,
		Token:        token,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}

func (s *AuthService) recordSession(userID uuid.UUID, ipAddress, rawUserAgent string) {
	ua := user_agent.New(rawUserAgent)
	browser, version := ua.Browser()

	session := &models.UserSession{
		UserID:    userID,
		IPAddress: ipAddress,
		Browser:   strings.TrimSpace(browser + " " + version),
		Platform:  ua.Platform(),
		UserAgent: rawUserAgent,
	}
	if err := s.users.RecordSession(session); err != nil {
		// Session audit is best effort and never blocks a login.
		s.logger.WithError(err).Warn("Failed to record login session")
	}
}
