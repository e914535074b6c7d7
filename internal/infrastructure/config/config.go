package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/cityfeedback/portal/internal/core/domain"
)

type Config struct {
	Env          string `env:"ENV,           default=development"`
	LogLevel     string `env:"LOG_LEVEL,     default=info"`
	StatusSchema string `env:"STATUS_SCHEMA, default=four-state"`
	StoragePath  string `env:"STORAGE_PATH"`

	Backend BackendConfig
	Portal  PortalConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=0s"`
}

type PortalConfig struct {
	Port          string        `env:"PORT,           default=3000"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=24h"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from the environment. In development a .env file in
// the working directory is loaded first; variables already set win.
func Load(ctx context.Context) (*Config, error) {
	if env := os.Getenv("ENV"); env == "" || env == "development" {
		_ = godotenv.Load()
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Schema(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Backend.Timeout < 0 {
		return nil, fmt.Errorf("config: BACKEND_TIMEOUT must not be negative")
	}
	return &cfg, nil
}

// Schema resolves STATUS_SCHEMA.
func (c *Config) Schema() (domain.StatusSchema, error) {
	return domain.ParseStatusSchema(c.StatusSchema)
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// LocalStorePath returns STORAGE_PATH, defaulting to
// ~/.cityfeedback/storage.yaml.
func (c *Config) LocalStorePath() (string, error) {
	if c.StoragePath != "" {
		return c.StoragePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cityfeedback", "storage.yaml"), nil
}
