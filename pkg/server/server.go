package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/ethpandaops/codebook/pkg/api"
	"github.com/ethpandaops/codebook/pkg/engine"
	"github.com/ethpandaops/codebook/pkg/frontend"
	"github.com/ethpandaops/codebook/pkg/observability"
	"github.com/ethpandaops/codebook/pkg/redis"
	"github.com/ethpandaops/codebook/pkg/source"
	r "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server represents the main application server
type Server struct {
	log    logrus.FieldLogger
	config *Config

	redis  *r.Client
	source source.Source
	engine *engine.Engine
	api    api.Service

	pprofServer  *http.Server
	healthServer *http.Server
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, log logrus.FieldLogger, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log = log.WithField("service", "server")

	s := &Server{
		config: config,
		log:    log,
		engine: engine.New(log),
	}

	opts := source.Options{}

	if config.Redis != nil {
		redisClient, err := redis.New(config.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}

		s.redis = redisClient
		opts.Redis = redisClient
		opts.KeyPrefix = config.Redis.Prefix
	}

	src, err := source.New(ctx, &config.Source, opts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	s.source = src

	var frontendHandler http.Handler
	if config.Frontend.Enabled {
		frontendHandler, err = frontend.NewHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to create frontend handler: %w", err)
		}
	}

	s.api = api.NewService(&config.API, s.engine, frontendHandler, log)

	return s, nil
}

// Engine returns the query engine served by this server
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// Start starts the server and all its components
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	s.log.WithFields(logrus.Fields{
		"has_redis": s.redis != nil,
		"source":    s.source.Name(),
		"api":       s.config.API.Enabled,
		"frontend":  s.config.Frontend.Enabled,
	}).Debug("Server component states")

	// Start metrics server
	g.Go(func() error {
		defer func() {
			if recovered := recover(); recovered != nil {
				s.log.WithField("panic", recovered).Error("Panic in metrics server goroutine")
			}
		}()
		observability.StartMetricsServer(ctx, s.config.MetricsAddr)
		<-ctx.Done()

		return nil
	})

	// Start pprof server if configured
	if s.config.PProfAddr != "" {
		s.pprofServer = &http.Server{
			Addr:              s.config.PProfAddr,
			ReadHeaderTimeout: 120 * time.Second,
		}

		g.Go(func() error {
			s.log.WithField("addr", s.config.PProfAddr).Info("Starting pprof server")

			if err := s.pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	// Start health check server if configured
	if s.config.HealthCheckAddr != "" {
		s.healthServer = &http.Server{
			Addr:              s.config.HealthCheckAddr,
			Handler:           s.healthHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			s.log.WithField("addr", s.config.HealthCheckAddr).Info("Starting health check server")

			if err := s.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	// The API answers 503 until the dataset has loaded
	if err := s.api.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API and frontend service: %w", err)
	}

	g.Go(func() error {
		s.loadDataset(ctx)

		return nil
	})

	// Wait for shutdown signal
	g.Go(func() error {
		<-ctx.Done()

		// Use a fresh context for cleanup since the current one is canceled
		return s.stop(context.Background())
	})

	return g.Wait()
}

// loadDataset loads the collection once, retrying failed loads until ctx is done
func (s *Server) loadDataset(ctx context.Context) {
	for {
		err := s.engine.Load(ctx, s.source)
		if err == nil || errors.Is(err, engine.ErrAlreadyLoaded) {
			return
		}

		if s.config.LoadRetryInterval <= 0 || ctx.Err() != nil {
			return
		}

		s.log.WithError(err).WithField("retry_in", s.config.LoadRetryInterval).Warn("Dataset load failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.LoadRetryInterval):
		}
	}
}

func (s *Server) healthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !s.engine.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}

func (s *Server) stop(ctx context.Context) error {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	if err := s.api.Stop(); err != nil {
		s.log.WithError(err).Error("failed to stop API service")
	}

	// Close Redis connection
	if s.redis != nil {
		s.log.Info("Closing Redis connection...")

		if err := s.redis.Close(); err != nil {
			s.log.WithError(err).Error("failed to close redis")
		}
	}

	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	if err := observability.StopMetricsServer(cleanupCtx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}
