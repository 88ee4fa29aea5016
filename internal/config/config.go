// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the portfolio server.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	// IPSalt keeps visitor hashes stable across restarts. Empty means a new
	// random salt per process.
	IPSalt      string `env:"IP_HASH_SALT"`
	MapDataPath string `env:"MAP_DATA_PATH"`
	AuthFile    string `env:"AUTH_FILE" envDefault:"auth.secret"`

	ProximityKm float64 `env:"PROXIMITY_KM" envDefault:"10"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`

	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
	MascotInterval   time.Duration `env:"MASCOT_INTERVAL" envDefault:"8s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ProximityKm <= 0 {
		return errors.New("PROXIMITY_KM must be positive")
	}
	if c.MascotInterval <= 0 {
		return errors.New("MASCOT_INTERVAL must be positive")
	}
	if c.VisitorRetention <= 0 {
		return errors.New("VISITOR_RETENTION must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
