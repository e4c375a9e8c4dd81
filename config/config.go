package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	TokenStoreFile     = "file"
	TokenStorePostgres = "postgres"
	TokenStoreMemory   = "memory"
)

// Client configures focusctl and anything else embedding the client SDK.
type Client struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	// Zero leaves the transport's defaults in charge.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s" validate:"min=0"`

	TokenStore  string `env:"TOKEN_STORE"  envDefault:"file" validate:"required,oneof=file postgres memory"`
	TokenFile   string `env:"TOKEN_FILE"   envDefault:".focusboard/token.json"`
	DatabaseURL string `env:"DATABASE_URL"                   validate:"required_if=TokenStore postgres"`

	// Empty keeps expiry detection lazy (checked on every view entry only).
	WatchdogSchedule string `env:"WATCHDOG_SCHEDULE"`

	MetricsPort string `env:"METRICS_PORT"`
}

// Server configures the reference backend.
type Server struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTL     time.Duration `env:"JWT_TTL"     envDefault:"24h"        validate:"min=1m"`
	MFAIssuer  string        `env:"MFA_ISSUER"  envDefault:"focusboard" validate:"required"`
	AdminEmail string        `env:"ADMIN_EMAIL"                         validate:"omitempty,email"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
	AppBaseURL   string `env:"APP_BASE_URL"   envDefault:"http://localhost:5173"`
}

func LoadClient() (*Client, error) {
	cfg := &Client{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadServer() (*Server, error) {
	cfg := &Server{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func (c *Client) SlogLevel() slog.Level { return parseLevel(c.LogLevel) }

func (c *Server) SlogLevel() slog.Level { return parseLevel(c.LogLevel) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
