package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Server holds the non-secret runtime settings. All fields have working
// defaults so a config file is optional.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// HTTPTimeout bounds every outbound call to the meeting provider and
	// the storage backend.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	Audit AuditConfig `yaml:"audit"`

	Zoom ZoomConfig `yaml:"zoom"`
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

// ZoomConfig allows overriding the provider endpoints, mainly for tests and
// region-specific deployments.
type ZoomConfig struct {
	TokenURL   string `yaml:"token_url"`
	APIBaseURL string `yaml:"api_base_url"`
}

func DefaultServer() *Server {
	return &Server{
		Addr:        ":8080",
		HTTPTimeout: 30 * time.Second,
	}
}

// LoadServer reads and parses the server configuration file at the given
// path. An empty path returns the defaults.
func LoadServer(path string) (*Server, error) {
	cfg := DefaultServer()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return cfg, nil
}

func (c *Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.Audit.Enabled {
		switch c.Audit.Type {
		case "file":
			if c.Audit.Path == "" {
				return fmt.Errorf("audit type 'file' requires a path")
			}
		case "memory", "":
		default:
			return fmt.Errorf("unknown audit type %q", c.Audit.Type)
		}
	}
	return nil
}
