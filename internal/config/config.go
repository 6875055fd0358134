// Package config loads server settings from the environment (and .env).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/devfolio/internal/typewriter"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
	DBPath      string `env:"DB_PATH" envDefault:"devfolio.db"`
	ContentPath string `env:"CONTENT_PATH"`

	Relay RelayConfig
	Admin AdminConfig

	TypeDelay   time.Duration `env:"TYPEWRITER_TYPE_DELAY" envDefault:"150ms"`
	DeleteDelay time.Duration `env:"TYPEWRITER_DELETE_DELAY" envDefault:"30ms"`
	Pause       time.Duration `env:"TYPEWRITER_PAUSE" envDefault:"500ms"`

	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
}

// RelayConfig selects and configures the contact email relay.
type RelayConfig struct {
	Kind string `env:"RELAY" envDefault:"log"`

	SMTPHost string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	ToEmail  string `env:"TO_EMAIL"`

	HTTPEndpoint   string `env:"EMAIL_API_ENDPOINT"`
	HTTPServiceID  string `env:"EMAIL_API_SERVICE_ID"`
	HTTPTemplateID string `env:"EMAIL_API_TEMPLATE_ID"`
	HTTPPublicKey  string `env:"EMAIL_API_PUBLIC_KEY"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Relay.Kind {
	case "log", "smtp", "http":
	default:
		return fmt.Errorf("config: RELAY must be log, smtp or http, got %q", c.Relay.Kind)
	}
	if c.Relay.Kind == "smtp" && c.Relay.ToEmail == "" {
		return fmt.Errorf("config: TO_EMAIL is required for the smtp relay")
	}
	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Timing returns the typewriter cadence.
func (c *Config) Timing() typewriter.Timing {
	return typewriter.Timing{Type: c.TypeDelay, Delete: c.DeleteDelay, Pause: c.Pause}
}

// Addr is the listen address.
func (c *Config) Addr() string { return ":" + c.Port }
