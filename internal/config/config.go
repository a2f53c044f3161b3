package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	Host            string        `env:"HOST" envDefault:""`
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	StorageType     string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL        string        `env:"REDIS_URL"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	SendQueueSize   int           `env:"SEND_QUEUE_SIZE" envDefault:"256"`
	StrictSubscribe bool          `env:"STRICT_SUBSCRIBE" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RankingWorkers  int           `env:"RANKING_WORKERS" envDefault:"4"`
	// BootstrapSu is "username:password" for a superuser created at startup if absent
	BootstrapSu string `env:"BOOTSTRAP_SU"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that tags cannot express
func (c *Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.BootstrapSu != "" {
		if _, _, err := c.BootstrapCredentials(); err != nil {
			return err
		}
	}
	return nil
}

// BootstrapCredentials splits BOOTSTRAP_SU into username and password
func (c *Config) BootstrapCredentials() (username, password string, err error) {
	username, password, ok := strings.Cut(c.BootstrapSu, ":")
	if !ok || username == "" || password == "" {
		return "", "", errors.New("BOOTSTRAP_SU must be username:password")
	}
	return username, password, nil
}
