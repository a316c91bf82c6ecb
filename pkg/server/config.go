// Package server provides server configuration and management
package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/ethpandaops/codebook/pkg/api"
	"github.com/ethpandaops/codebook/pkg/frontend"
	"github.com/ethpandaops/codebook/pkg/redis"
	"github.com/ethpandaops/codebook/pkg/source"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Define static errors
var (
	ErrFrontendRequiresAPI   = errors.New("frontend is served by the API server and requires api.enabled")
	ErrLoadRetryInvalid      = errors.New("loadRetryInterval must not be negative")
	ErrShutdownTimeoutTooLow = errors.New("shutdownTimeout must be positive")
)

//nolint:gochecknoglobals // Shared validator instance
var validate = validator.New()

// Config holds server configuration
type Config struct {
	// LoggingLevel is the logging level to use.
	LoggingLevel string `yaml:"logging" default:"info" validate:"oneof=panic fatal error warn info debug trace"`
	// MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck.
	HealthCheckAddr string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof.
	PProfAddr string `yaml:"pprofAddr"`
	// ShutdownTimeout is the timeout for shutting down the server.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`
	// LoadRetryInterval is the delay between failed dataset loads. Zero disables retries.
	LoadRetryInterval time.Duration `yaml:"loadRetryInterval" default:"30s"`

	// Source is where the record collection is loaded from.
	Source source.Config `yaml:"source"`
	// Redis is the optional redis configuration used by the dataset cache.
	Redis *redis.Config `yaml:"redis"`

	API      api.Config      `yaml:"api"`
	Frontend frontend.Config `yaml:"frontend"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.ShutdownTimeout <= 0 {
		return ErrShutdownTimeoutTooLow
	}

	if c.LoadRetryInterval < 0 {
		return ErrLoadRetryInvalid
	}

	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("invalid source configuration: %w", err)
	}

	if c.Redis != nil {
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("invalid redis configuration: %w", err)
		}
	}

	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("invalid api configuration: %w", err)
	}

	if c.Frontend.Enabled && !c.API.Enabled {
		return ErrFrontendRequiresAPI
	}

	return nil
}

// DefaultConfig returns a configuration with all defaults applied
func DefaultConfig() (*Config, error) {
	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfig reads a YAML configuration file over the defaults
func LoadConfig(path string) (*Config, error) {
	config, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}
