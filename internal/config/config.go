// Package config loads service configuration from the environment and
// optional sandbox profile presets from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Exports   ExportsConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Profiles  ProfilesConfig
	Clients   ClientsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// ExportsConfig holds export store configuration.
type ExportsConfig struct {
	TTL time.Duration `envconfig:"EXPORT_TTL" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ClientsConfig points at the optional collaborator endpoints. An empty
// endpoint disables the corresponding routes.
type ClientsConfig struct {
	ChatEndpoint    string        `envconfig:"CHAT_ENDPOINT"`
	ChatTimeout     time.Duration `envconfig:"CHAT_TIMEOUT" default:"2m"`
	PersistEndpoint string        `envconfig:"PERSIST_ENDPOINT"`
	PersistTimeout  time.Duration `envconfig:"PERSIST_TIMEOUT" default:"30s"`
}

// ProfilesConfig points at the optional sandbox profiles file.
type ProfilesConfig struct {
	Path string `envconfig:"SANDBOX_PROFILES"`
}

// Profile is a named sandbox preset a host can reference when creating a
// session instead of spelling out the allowlist each time.
type Profile struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowEval      bool     `yaml:"allow_eval"`
	HostOrigin     string   `yaml:"host_origin"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadProfiles reads the sandbox profiles file. A missing path yields an
// empty (not nil) map so lookups stay uniform.
func LoadProfiles(path string) (map[string]Profile, error) {
	profiles := make(map[string]Profile)
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}
	return profiles, nil
}
