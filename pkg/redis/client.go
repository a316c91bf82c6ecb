package redis

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from the configuration.
// Address may be a redis:// or rediss:// URL, or a host:port pair.
func New(cfg *Config) (*redis.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(cfg.Address, "redis://") || strings.HasPrefix(cfg.Address, "rediss://") {
		opt, err := redis.ParseURL(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}

		return redis.NewClient(opt), nil
	}

	return redis.NewClient(&redis.Options{Addr: cfg.Address}), nil
}
