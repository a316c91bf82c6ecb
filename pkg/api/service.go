package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethpandaops/codebook/pkg/api/handlers"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/sirupsen/logrus"
)

// Service defines the API service interface
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type service struct {
	app             *fiber.App
	server          *http.Server
	config          *Config
	engine          handlers.Engine
	frontendHandler http.Handler
	log             logrus.FieldLogger
}

// NewService creates a new API and frontend service
func NewService(cfg *Config, engine handlers.Engine, frontendHandler http.Handler, log logrus.FieldLogger) Service {
	return &service{
		config:          cfg,
		engine:          engine,
		frontendHandler: frontendHandler,
		log:             log.WithField("service", "api"),
	}
}

// NewApp builds the Fiber app with middleware, API routes and the optional frontend fallback
func NewApp(engine handlers.Engine, frontendHandler http.Handler, log logrus.FieldLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "Codebook API",
	})

	setupMiddleware(app)

	server := handlers.NewServer(engine, log)

	apiV1 := app.Group("/api/v1")
	server.Register(apiV1)

	// Unknown API paths must not fall through to the frontend
	apiV1.Use(func(_ fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	// Register frontend handler as fallback for non-API routes
	if frontendHandler != nil {
		app.Use(adaptor.HTTPHandler(frontendHandler))
	}

	return app
}

// Start initializes and starts the API server with frontend integration
func (s *service) Start(_ context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API service is disabled")
		return nil
	}

	s.app = NewApp(s.engine, s.frontendHandler, s.log)

	// Create HTTP server with the Fiber app
	s.server = &http.Server{
		Addr:              s.config.Addr,
		Handler:           adaptor.FiberApp(s.app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.log.WithField("addr", s.config.Addr).Info("Starting API and frontend server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Server failed to start")
		}
	}()

	return nil
}

// Stop gracefully shuts down the API server
func (s *service) Stop() error {
	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping API and frontend server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
