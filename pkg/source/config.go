package source

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownType is returned for an unsupported source type
	ErrUnknownType = errors.New("unknown source type")
	// ErrPathRequired is returned when a file source has no path
	ErrPathRequired = errors.New("source path is required for file sources")
	// ErrURLRequired is returned when an http source has no URL
	ErrURLRequired = errors.New("source url is required for http sources")
	// ErrBucketRequired is returned when an s3 source has no bucket
	ErrBucketRequired = errors.New("s3 bucket is required for s3 sources")
	// ErrKeyRequired is returned when an s3 source has no object key
	ErrKeyRequired = errors.New("s3 key is required for s3 sources")
	// ErrUnknownFormat is returned for an unsupported payload format
	ErrUnknownFormat = errors.New("unknown payload format")
	// ErrCacheTTLInvalid is returned when caching is enabled with a non-positive TTL
	ErrCacheTTLInvalid = errors.New("cache ttl must be positive")
)

// Type identifies where the dataset is fetched from
type Type string

const (
	// TypeFile reads a local file
	TypeFile Type = "file"
	// TypeHTTP fetches a URL
	TypeHTTP Type = "http"
	// TypeS3 reads an S3 object
	TypeS3 Type = "s3"
)

// Config represents data source configuration
type Config struct {
	Type    Type          `yaml:"type" default:"file" validate:"oneof=file http s3"`
	Path    string        `yaml:"path" default:"data/measure-overview.json"`
	URL     string        `yaml:"url"`
	Format  Format        `yaml:"format" default:"auto" validate:"oneof=auto json csv"`
	Timeout time.Duration `yaml:"timeout" default:"30s"`
	S3      S3Config      `yaml:"s3"`
	Cache   CacheConfig   `yaml:"cache"`
}

// S3Config holds S3 object location and client settings
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region" default:"us-east-1"`
	Endpoint  string `yaml:"endpoint"` // optional; enables a custom endpoint such as MinIO
	PathStyle bool   `yaml:"pathStyle"`
	// Static credentials; when empty the default credentials chain is used
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

// CacheConfig controls caching of the decoded dataset in redis
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" default:"false"`
	TTL     time.Duration `yaml:"ttl" default:"1h"`
}

// Validate validates the source configuration
func (c *Config) Validate() error {
	switch c.Type {
	case TypeFile:
		if c.Path == "" {
			return ErrPathRequired
		}
	case TypeHTTP:
		if c.URL == "" {
			return ErrURLRequired
		}
	case TypeS3:
		if c.S3.Bucket == "" {
			return ErrBucketRequired
		}

		if c.S3.Key == "" {
			return ErrKeyRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}

	switch c.Format {
	case FormatAuto, FormatJSON, FormatCSV, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}

	return nil
}
