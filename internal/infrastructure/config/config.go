package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Notifier kinds.
const (
	NotifierLog   = "log"
	NotifierRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Notifications
	Notifier              string        `env:"NOTIFIER"                envDefault:"log"`
	NotifyChannel         string        `env:"NOTIFY_CHANNEL"          envDefault:"fundledger:notifications"`
	NotifyMaxRetries      uint64        `env:"NOTIFY_MAX_RETRIES"      envDefault:"3"`
	NotifyInitialInterval time.Duration `env:"NOTIFY_INITIAL_INTERVAL" envDefault:"50ms"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Accounts created at startup, "id:balance" entries
	SeedAccounts []string `env:"SEED_ACCOUNTS" envSeparator:","`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Notifier {
	case NotifierLog, NotifierRedis:
	default:
		return fmt.Errorf("unsupported NOTIFIER %q: want %s or %s", c.Notifier, NotifierLog, NotifierRedis)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}

	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled, got %d", c.RateLimitBurst)
	}

	return nil
}
