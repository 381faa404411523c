// apps/go-server/internal/config/config.go
//
// Runtime configuration read from the environment (after .env is loaded
// by main). Every field has a default so the server starts with no setup.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	BoardsRandom = "random"
	BoardsFixed  = "fixed"
)

type Config struct {
	Port     string `env:"PORT"      envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Game
	MapCount             int    `env:"MAP_COUNT"              envDefault:"200"`
	MaxRetries           int    `env:"MAX_RETRIES"            envDefault:"2147483647"`
	BoardMode            string `env:"BOARD_MODE"             envDefault:"random"`
	BoardFile            string `env:"BOARD_FILE"`
	PlacementMaxAttempts int    `env:"PLACEMENT_MAX_ATTEMPTS" envDefault:"0"`

	// Sessions
	SessionStore  string        `env:"SESSION_STORE"  envDefault:"memory"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"168h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	DBPath        string        `env:"DB_PATH"        envDefault:"./data/battleships.db"`

	// HTTP
	JWTSecret    string `env:"JWT_SECRET"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
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

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.MapCount < 1:
		return fmt.Errorf("config: MAP_COUNT must be at least 1, got %d", c.MapCount)
	case c.MaxRetries < 0:
		return fmt.Errorf("config: MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	case c.PlacementMaxAttempts < 0:
		return fmt.Errorf("config: PLACEMENT_MAX_ATTEMPTS must not be negative, got %d", c.PlacementMaxAttempts)
	case c.SessionTTL <= 0:
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	case c.SessionStore != StoreMemory && c.SessionStore != StoreSQLite:
		return fmt.Errorf("config: SESSION_STORE must be %q or %q, got %q", StoreMemory, StoreSQLite, c.SessionStore)
	case c.BoardMode != BoardsRandom && c.BoardMode != BoardsFixed:
		return fmt.Errorf("config: BOARD_MODE must be %q or %q, got %q", BoardsRandom, BoardsFixed, c.BoardMode)
	}
	return nil
}
