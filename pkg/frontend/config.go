package frontend

// Config represents frontend configuration. The explorer is served by the API server.
type Config struct {
	Enabled bool `yaml:"enabled" default:"true"`
}
