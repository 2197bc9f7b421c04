// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"eduforums/internal/assist"
	"eduforums/internal/cache"
	"eduforums/internal/config"
	"eduforums/internal/database"
	"eduforums/internal/middleware"
	"eduforums/internal/models"
	"eduforums/internal/repository"
	"eduforums/internal/service"
	"eduforums/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	app              *fiber.App
	promMiddleware   *fiberprometheus.FiberPrometheus
	sessions         *session.Store
	gateway          assist.Gateway
	accountRepo      repository.AccountRepository
	communityRepo    repository.CommunityRepository
	feedbackRepo     repository.FeedbackRepository
	commentRepo      repository.CommentRepository
	accountService   *service.AccountService
	communityService *service.CommunityService
	feedbackService  *service.FeedbackService
	commentService   *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	gateway := assist.NewClient(assist.ClientConfig{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		ChatModel:       cfg.OpenAIChatModel,
		ModerationModel: cfg.OpenAIModerationModel,
		Timeout:         time.Duration(cfg.OpenAITimeoutSeconds) * time.Second,
	})

	return NewServerWithDeps(cfg, db, redisClient, gateway)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, gateway assist.Gateway) (*Server, error) {
	accountRepo := repository.NewAccountRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("eduforums-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		gateway:        gateway,
		accountRepo:    accountRepo,
		communityRepo:  communityRepo,
		feedbackRepo:   feedbackRepo,
		commentRepo:    commentRepo,
	}

	server.accountService = service.NewAccountService(accountRepo)
	server.communityService = service.NewCommunityService(communityRepo)
	server.feedbackService = service.NewFeedbackService(feedbackRepo, commentRepo, gateway)
	server.commentService = service.NewCommentService(commentRepo, feedbackRepo, gateway)

	if redisClient != nil {
		ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
		server.sessions = session.NewStore(redisClient, ttl)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and session identity
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans per request
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Eduforums Backend Metrics Dashboard",
	}))

	// Auth routes. The four entry points are split by role so a Student and
	// an Admin can share a name without colliding.
	api.Post("/student-signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.StudentSignup)
	api.Post("/admin-signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.AdminSignup)
	api.Post("/login-student", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.StudentLogin)
	api.Post("/login-admin", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.AdminLogin)
	api.Post("/logout", s.Logout)

	// Session introspection
	api.Get("/check-user-role", s.CheckUserRole)
	api.Get("/me", s.Me)

	// Community routes. Browsing is public; catalog changes are Admin-only.
	api.Get("/communities", s.GetCommunities)
	api.Post("/communities", s.RequireRole(models.RoleAdmin), s.CreateCommunity)
	api.Get("/communities/:id/feedbacks", s.GetCommunityFeedbacks)
	api.Post("/communities/:id/feedbacks", s.RequireRole(models.RoleStudent), middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_feedback"), s.CreateFeedback)
	api.Get("/communities/:id", s.GetCommunity)
	api.Delete("/communities/:id", s.RequireRole(models.RoleAdmin), s.DeleteCommunity)

	// Feedback routes. Specific /:id/:resource routes before generic /:id.
	api.Post("/feedbacks/:id/upvote", s.RequireRole(models.RoleStudent), s.UpvoteFeedback)
	api.Post("/feedbacks/:id/downvote", s.RequireRole(models.RoleStudent), s.DownvoteFeedback)
	api.Post("/feedbacks/:id/star", s.RequireRole(models.RoleAdmin), s.StarFeedback)
	api.Post("/feedbacks/:id/unstar", s.RequireRole(models.RoleAdmin), s.UnstarFeedback)
	api.Get("/feedbacks/:id/comments", s.GetComments)
	api.Post("/feedbacks/:id/comments", s.RequireAuth(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	api.Get("/feedbacks/:id/summary", s.SummarizeFeedback)
	api.Get("/feedbacks/:id", s.GetFeedback)
	api.Delete("/feedbacks/:id", s.RequireRole(models.RoleAdmin), s.DeleteFeedback)

	// Assist utility routes, throttled since each call hits the provider
	api.Post("/sentiment", middleware.RateLimit(
		s.redis, 20, time.Minute, "assist"), s.ClassifySentiment)
	api.Post("/moderation", middleware.RateLimit(
		s.redis, 20, time.Minute, "assist"), s.ModerateText)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Sessions live in Redis, so it is required for full readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Eduforums",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the Fiber app, wires middleware and routes, and listens.
// It returns once Shutdown closes the listener.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Student Feedback API",
		BodyLimit: 1 * 1024 * 1024, // 1MB limit, text-only payloads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
