// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
	"inkwell/internal/store"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          store.PostStore
	promMiddleware *fiberprometheus.FiberPrometheus
	postService    *service.PostService
	uploadService  *service.UploadService
}

// NewServer creates a new server instance with all dependencies. The store is
// constructed but not opened; callers open it before or while serving so that
// requests arriving before load-complete get a not-ready response instead of
// an empty collection.
func NewServer(cfg *config.Config) (*Server, error) {
	var st store.PostStore
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		st = store.NewSQLiteStore(cfg.DBFile)
	case config.BackendJSON:
		st = store.NewJSONFileStore(cfg.DataFile)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return NewServerWithDeps(cfg, st), nil
}

// NewServerWithDeps creates a Server using an already-initialized store.
// Use this in tests or when a bootstrap layer establishes the store.
func NewServerWithDeps(cfg *config.Config, st store.PostStore) *Server {
	return &Server{
		config:         cfg,
		store:          st,
		promMiddleware: fiberprometheus.New("inkwell-api"),
		postService:    service.NewPostService(st),
		uploadService:  service.NewUploadService(cfg),
	}
}

// Store exposes the underlying post store for lifecycle management.
func (s *Server) Store() store.PostStore {
	return s.store
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400, // 24 hours
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
	// Backwards-compatible legacy route: map /health to readiness
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Post routes
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	// Define specific routes BEFORE generic /:id route
	posts.Get("/search", s.SearchPosts)
	posts.Post("/", s.CreatePost)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Image upload collaborator
	api.Post("/upload-image", s.UploadImage)

	// Uploaded images are served statically under their returned URLs
	app.Static("/uploads", s.config.UploadDir)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The server is ready once
// the post store has fully loaded its backing file.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	storeStatus := "ready"
	status := fiber.StatusOK
	if s.store == nil || !s.store.Ready() {
		storeStatus = "loading"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": storeStatus,
		"checks": fiber.Map{
			"store": storeStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(_ context.Context) error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
