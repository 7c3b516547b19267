package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/config"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/database"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/handlers"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/middleware"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/services"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/internal/storage"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/jwt"
	"github.com/NiyaliTravel/niyali-travel-site-sub000/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting NiyaliTravel backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Optional Redis cache; an empty REDIS_ADDR runs the site without it
	cache := services.NewCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, logger)
	if cache.Enabled() {
		logger.Info("Redis cache enabled")
	} else {
		logger.Info("Redis cache disabled")
	}
	defer cache.Close()

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	guestHouseRepository := database.NewGuestHouseRepository(db)
	packageRepository := database.NewPackageRepository(db)
	experienceRepository := database.NewExperienceRepository(db)
	contentRepository := database.NewContentRepository(db)
	scheduleRepository := database.NewScheduleRepository(db)
	availabilityRepository := database.NewAvailabilityRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	referralRepository := database.NewReferralRepository(db)
	chatRepository := database.NewChatRepository(db)
	agentRepository := database.NewAgentRepository(db)

	// Catalog reads go through the failover facade: Postgres first, the
	// seeded in-memory snapshot when the breaker is open. The same snapshot
	// buffers chat transcripts during an outage.
	memoryStore := storage.NewMemory()
	catalog := storage.NewFacade(
		storage.NewDBCatalog(guestHouseRepository, packageRepository, experienceRepository, contentRepository, scheduleRepository),
		memoryStore,
		storage.Options{
			MaxFailures: cfg.Store.MaxFailures,
			OpenTimeout: cfg.Store.OpenTimeout,
		},
		logger,
	)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	stayValidator := validator.NewStayValidator(cfg.Security.MaxNights)
	authService := services.NewAuthService(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	bookingService := services.NewBookingService(
		bookingRepository,
		availabilityRepository,
		guestHouseRepository,
		packageRepository,
		stayValidator,
		logger,
	)
	referralService := services.NewReferralService(referralRepository, cfg.Referral.RewardPercent, logger)
	chatService := services.NewChatService(chatRepository, memoryStore, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	guestHouseHandler := handlers.NewGuestHouseHandler(catalog, guestHouseRepository, bookingService, cache, logger)
	packageHandler := handlers.NewPackageHandler(catalog, packageRepository, cache, logger)
	experienceHandler := handlers.NewExperienceHandler(catalog, experienceRepository, cache, logger)
	contentHandler := handlers.NewContentHandler(catalog, contentRepository, cache, logger)
	scheduleHandler := handlers.NewScheduleHandler(catalog, scheduleRepository, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, referralService, logger)
	referralHandler := handlers.NewReferralHandler(referralService, logger)
	chatHandler := handlers.NewChatHandler(chatService, cfg.CORS.AllowedOrigins, logger)
	adminHandler := handlers.NewAdminHandler(userRepository, guestHouseRepository, bookingRepository, availabilityRepository, logger)
	agentHandler := handlers.NewAgentHandler(agentRepository, logger)

	authenticator := middleware.NewAuthenticator(jwtService, userRepository, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", handlers.DataSourceHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, cache, catalog))

	v1 := router.Group("/api/v1")
	{
		// Public marketing site
		v1.GET("/guest-houses", guestHouseHandler.List)
		v1.GET("/guest-houses/:id", guestHouseHandler.Get)
		v1.GET("/guest-houses/:id/availability", guestHouseHandler.Availability)
		v1.GET("/packages", packageHandler.List)
		v1.GET("/packages/:id", packageHandler.Get)
		v1.GET("/experiences", experienceHandler.List)
		v1.GET("/experiences/:id", experienceHandler.Get)
		v1.GET("/content", contentHandler.ListSections)
		v1.GET("/content/:key", contentHandler.GetSection)
		v1.GET("/navigation", contentHandler.ListNavigation)
		v1.GET("/schedules/ferries", scheduleHandler.ListFerries)
		v1.GET("/schedules/flights", scheduleHandler.ListFlights)

		// Chat widget
		v1.GET("/chat/ws", chatHandler.Connect)
		v1.GET("/chat/history", chatHandler.History)

		// Authentication
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/admin/login", authHandler.AdminLogin)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", authenticator.RequireUser(), authHandler.Me)
		}

		// Traveler account routes
		authed := v1.Group("")
		authed.Use(authenticator.RequireUser())
		{
			authed.POST("/bookings", bookingHandler.Create)
			authed.GET("/bookings", bookingHandler.ListMine)
			authed.GET("/bookings/:id", bookingHandler.Get)
			authed.POST("/bookings/:id/cancel", bookingHandler.Cancel)

			authed.POST("/agents/register", agentHandler.Register)
			authed.GET("/agents/me", agentHandler.Me)

			authed.GET("/referrals/code", referralHandler.MyCode)
			authed.POST("/referrals/redeem", referralHandler.Redeem)
			authed.GET("/referrals/rewards", referralHandler.MyRewards)
			authed.GET("/referrals/stats", referralHandler.Stats)
		}

		// Admin console
		admin := v1.Group("/admin")
		admin.Use(authenticator.RequireUser(), authenticator.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)

			admin.POST("/guest-houses", guestHouseHandler.Create)
			admin.PUT("/guest-houses/:id", guestHouseHandler.Update)
			admin.DELETE("/guest-houses/:id", guestHouseHandler.Delete)

			admin.POST("/packages", packageHandler.Create)
			admin.PUT("/packages/:id", packageHandler.Update)
			admin.DELETE("/packages/:id", packageHandler.Delete)

			admin.POST("/experiences", experienceHandler.Create)
			admin.PUT("/experiences/:id", experienceHandler.Update)
			admin.DELETE("/experiences/:id", experienceHandler.Delete)

			admin.PUT("/content/:key", contentHandler.UpsertSection)
			admin.POST("/navigation", contentHandler.CreateNavigationItem)
			admin.PUT("/navigation/:id", contentHandler.UpdateNavigationItem)
			admin.DELETE("/navigation/:id", contentHandler.DeleteNavigationItem)

			admin.POST("/schedules/ferries", scheduleHandler.CreateFerry)
			admin.PUT("/schedules/ferries/:id", scheduleHandler.UpdateFerry)
			admin.POST("/schedules/flights", scheduleHandler.CreateFlight)
			admin.PUT("/schedules/flights/:id", scheduleHandler.UpdateFlight)

			admin.PUT("/availability/rooms", adminHandler.UpsertRoomAvailability)
			admin.PUT("/availability/packages", adminHandler.UpsertPackageAvailability)

			admin.GET("/bookings", bookingHandler.ListAll)
			admin.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)

			admin.PUT("/agents/:id/tier", agentHandler.UpdateTier)

			admin.GET("/rewards", referralHandler.ListAllRewards)
			admin.PUT("/rewards/:id/status", referralHandler.UpdateRewardStatus)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}
		if source := c.Writer.Header().Get(handlers.DataSourceHeader); source != "" {
			fields["data_source"] = source
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler reports the database, cache and catalog facade state.
// A database outage degrades the health report but keeps the site up: catalog
// reads keep flowing from the in-memory fallback.
func healthCheckHandler(db database.DB, cache *services.Cache, catalog *storage.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
		}

		cacheStatus := "disabled"
		if cache.Enabled() {
			cacheStatus = "healthy"
			if err := cache.Ping(c.Request.Context()); err != nil {
				cacheStatus = "unhealthy"
			}
		}

		status := "healthy"
		if dbStatus == "unhealthy" {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"database":  dbStatus,
			"cache":     cacheStatus,
			"catalog":   string(catalog.Mode()),
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
