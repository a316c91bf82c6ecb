package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethpandaops/codebook/pkg/engine"
	"github.com/ethpandaops/codebook/pkg/redis"
	"github.com/ethpandaops/codebook/pkg/server"
	"github.com/ethpandaops/codebook/pkg/source"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidS3Location is returned when an s3:// source has no bucket or key
	ErrInvalidS3Location = errors.New("s3 source must be s3://bucket/key")
)

// loadCLIConfig loads the configuration file, falling back to defaults when it does not exist
func loadCLIConfig(path string) (*server.Config, error) {
	config, err := server.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return server.DefaultConfig()
		}

		return nil, err
	}

	return config, nil
}

// applySourceFlag points cfg at a file path, an http(s) URL or an s3://bucket/key location
func applySourceFlag(cfg *source.Config, value string) error {
	switch {
	case value == "":
		return nil
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		cfg.Type = source.TypeHTTP
		cfg.URL = value
	case strings.HasPrefix(value, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(value, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return fmt.Errorf("%w: %q", ErrInvalidS3Location, value)
		}

		cfg.Type = source.TypeS3
		cfg.S3.Bucket = bucket
		cfg.S3.Key = key
	default:
		cfg.Type = source.TypeFile
		cfg.Path = value
	}

	return nil
}

// loadEngine builds the configured source and loads it into a fresh engine
func loadEngine(ctx context.Context, cfg *server.Config, log logrus.FieldLogger) (*engine.Engine, error) {
	opts := source.Options{}

	if cfg.Redis != nil {
		redisClient, err := redis.New(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		defer redisClient.Close()

		opts.Redis = redisClient
		opts.KeyPrefix = cfg.Redis.Prefix
	}

	src, err := source.New(ctx, &cfg.Source, opts, log)
	if err != nil {
		return nil, err
	}

	eng := engine.New(log)
	if err := eng.Load(ctx, src); err != nil {
		return nil, err
	}

	return eng, nil
}
