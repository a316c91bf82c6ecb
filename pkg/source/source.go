// Package source implements the data sources a record collection is loaded from
package source

import (
	"context"
	"fmt"

	"github.com/ethpandaops/codebook/pkg/records"
	r "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Source supplies a record collection
type Source interface {
	Name() string
	Load(ctx context.Context) ([]records.Record, error)
}

// Options carries optional collaborators for New
type Options struct {
	// Redis enables the dataset cache when Config.Cache.Enabled is set
	Redis *r.Client
	// KeyPrefix prefixes cache keys
	KeyPrefix string
}

// New builds the source described by cfg
func New(ctx context.Context, cfg *Config, opts Options, log logrus.FieldLogger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		src Source
		err error
	)

	switch cfg.Type {
	case TypeFile:
		src = NewFileSource(cfg.Path, cfg.Format)
	case TypeHTTP:
		src = NewHTTPSource(cfg.URL, cfg.Format, cfg.Timeout)
	case TypeS3:
		src, err = NewS3Source(ctx, &cfg.S3, cfg.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 source: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}

	if cfg.Cache.Enabled {
		if opts.Redis == nil {
			log.WithField("source", src.Name()).Warn("Dataset cache enabled without redis, caching disabled")
			return src, nil
		}

		src = NewCachedSource(src, opts.Redis, opts.KeyPrefix, cfg.Cache.TTL, log)
	}

	return src, nil
}
