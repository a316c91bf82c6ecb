// Package redis builds the optional client used to cache remote datasets
package redis

import "errors"

// ErrAddressRequired is returned when a redis block is configured without an address
var ErrAddressRequired = errors.New("redis address is required")

const defaultPrefix = "codebook"

// Config is the redis block of the serve configuration
type Config struct {
	// Address is a redis:// URL or a plain host:port
	Address string `yaml:"address"`
	// Prefix namespaces cache keys when several deployments share one server
	Prefix string `yaml:"prefix" default:"codebook"`
}

// Validate requires an address and fills in the key prefix
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrAddressRequired
	}

	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}

	return nil
}

// PrefixKey namespaces key, e.g. "codebook:dataset:<source>"
func (c *Config) PrefixKey(key string) string {
	if c.Prefix == "" {
		return key
	}

	return c.Prefix + ":" + key
}
