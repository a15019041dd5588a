// Package server is the NutriBattle development backend. It serves the
// REST surface the CLI talks to from a local SQLite database, seeded with
// a food catalog and an admin account.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutribattle/nutribattle/internal/auth"
	"github.com/nutribattle/nutribattle/internal/config"
	"github.com/nutribattle/nutribattle/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	version   string
	tokenTTL  time.Duration
	now       func() time.Time
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Without a configured secret tokens only live as long as the process
	secret := cfg.Server.JWTSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		zlog.Info().Msg("JWT_SECRET not set, generated an ephemeral secret")
	}
	auth.InitializeJWT(secret)

	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: validator.New(),
		version:   version,
		tokenTTL:  auth.DefaultTokenTTL,
		now:       time.Now,
	}

	if err := server.seed(); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	server.setupRouter()

	return server, nil
}

func isMemoryDatabase(url string) bool {
	return strings.Contains(url, ":memory:") || strings.Contains(url, "mode=memory")
}

// initDatabase initializes the database connection
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 300  // 5 minutes
		busyTimeout     = 5000 // 5 seconds
	)

	db, err := gorm.Open(sqlite.Open(cfg.Server.DatabaseURL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	if isMemoryDatabase(cfg.Server.DatabaseURL) {
		// An in-memory database disappears with its last connection
		sqlDB.SetMaxIdleConns(maxOpenConns)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")

	// Public endpoints
	api.GET("/test", s.test)
	api.POST("/auth/login", s.login)
	api.POST("/auth/signup", s.signup)
	api.GET("/auth/check-username", s.checkUsername)
	api.GET("/auth/check-email", s.checkEmail)

	foods := api.Group("/foods")
	{
		foods.GET("", s.listFoods)
		foods.GET("/homepage", s.homepageFoods)
		foods.GET("/search", s.searchFoods)
		foods.GET("/categories", s.listCategories)
		foods.GET("/type/:type", s.foodsByType)
		foods.GET("/:id", s.getFood)
	}

	// Authenticated endpoints (JWT required)
	authed := api.Group("")
	authed.Use(JWTAuthMiddleware(s.db, s.logger))
	{
		authed.POST("/compare", s.compareFoods)
		authed.GET("/recommendations/:foodId", s.recommendations)

		nutrition := authed.Group("/nutrition")
		nutrition.GET("/goals", s.getNutritionGoals)
		nutrition.POST("/goals", s.setNutritionGoals)
		nutrition.GET("/daily", s.dailySummary)
		nutrition.GET("/weekly", s.weeklySummary)
		nutrition.GET("/recommendations/calories", s.calorieRecommendations)
		nutrition.POST("/intake", s.addIntake)
		nutrition.PUT("/intake/:id", s.updateIntake)
		nutrition.DELETE("/intake/:id", s.deleteIntake)

		user := authed.Group("/user")
		user.GET("/profile", s.getProfile)
		user.PUT("/profile", s.updateProfile)
		user.GET("/goals", s.getGoals)
		user.PUT("/goals", s.updateGoals)
		user.GET("/goals/calculate", s.calculateGoals)
		user.PUT("/password", s.changePassword)

		// Admin panel
		admin := authed.Group("/admin")
		admin.Use(AdminOnlyMiddleware(s.logger))
		{
			admin.GET("/users", s.listUsers)
			admin.PUT("/users/:id/toggle-status", s.toggleUserStatus)
			admin.PUT("/users/:id/make-admin", s.makeAdmin)
			admin.POST("/foods", s.createFood)
			admin.PUT("/foods/:id", s.updateFood)
			admin.DELETE("/foods/:id", s.deleteFood)
			admin.GET("/stats", s.systemStats)
		}
	}
}

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware echoes the caller's request id, or assigns one
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": s.now().UTC(),
		"service":   "nutribattle-devserver",
		"version":   s.version,
	})
}

// test is the diagnostics endpoint the client pings
func (s *Server) test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "API is working!",
		"timestamp": fmt.Sprint(s.now().UnixMilli()),
	})
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Close closes the database connection
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	addr := ":" + s.config.Server.Port

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	if err := s.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
