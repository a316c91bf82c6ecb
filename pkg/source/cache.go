package source

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethpandaops/codebook/pkg/observability"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cachedDataset is the redis representation of a decoded collection
type cachedDataset struct {
	Source    string           `json:"source"`
	Records   []records.Record `json:"records"`
	UpdatedAt time.Time        `json:"updated_at"`
	TTL       time.Duration    `json:"ttl"`
}

// CachedSource serves a decoded collection from redis and falls back to the wrapped source.
// Redis failures are logged and never fail a load.
type CachedSource struct {
	inner       Source
	redisClient *redis.Client
	key         string
	ttl         time.Duration
	log         logrus.FieldLogger
}

// NewCachedSource wraps inner with a redis cache entry under <prefix>:dataset:<inner name>
func NewCachedSource(inner Source, redisClient *redis.Client, prefix string, ttl time.Duration, log logrus.FieldLogger) *CachedSource {
	key := "dataset:" + inner.Name()
	if prefix != "" {
		key = prefix + ":" + key
	}

	return &CachedSource{
		inner:       inner,
		redisClient: redisClient,
		key:         key,
		ttl:         ttl,
		log:         log.WithField("component", "source.cache"),
	}
}

// Name identifies the wrapped source
func (s *CachedSource) Name() string {
	return s.inner.Name()
}

// Key returns the redis key holding the cached collection
func (s *CachedSource) Key() string {
	return s.key
}

// Load returns the cached collection, or loads and caches it
func (s *CachedSource) Load(ctx context.Context) ([]records.Record, error) {
	cached, err := s.get(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read dataset cache")
	}

	if cached != nil {
		observability.RecordSourceCacheHit(s.Name())
		s.log.WithField("records", len(cached.Records)).Debug("Dataset cache hit")

		return cached.Records, nil
	}

	observability.RecordSourceCacheMiss(s.Name())

	loaded, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.set(ctx, loaded); err != nil {
		s.log.WithError(err).Warn("Failed to write dataset cache")
	}

	return loaded, nil
}

// Invalidate removes the cached collection
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.redisClient.Del(ctx, s.key).Err()
}

func (s *CachedSource) get(ctx context.Context) (*cachedDataset, error) {
	data, err := s.redisClient.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}

		return nil, err
	}

	var cached cachedDataset
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, err
	}

	// Check if expired
	if time.Since(cached.UpdatedAt) > cached.TTL {
		_ = s.redisClient.Del(ctx, s.key)
		return nil, nil
	}

	return &cached, nil
}

func (s *CachedSource) set(ctx context.Context, loaded []records.Record) error {
	data, err := json.Marshal(cachedDataset{
		Source:    s.inner.Name(),
		Records:   loaded,
		UpdatedAt: time.Now(),
		TTL:       s.ttl,
	})
	if err != nil {
		return err
	}

	return s.redisClient.Set(ctx, s.key, data, s.ttl).Err()
}
