package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret    string `env:"JWT_SECRET,required"  validate:"required,min=32"`
	ResendAPIKey string `env:"RESEND_API_KEY"        validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"           validate:"required_if=Env production,required_if=Env staging"`

	// Verification policy knobs.
	CodeLength        int    `env:"CODE_LENGTH" envDefault:"6" validate:"min=4,max=10"`
	CodeTTLSec        int    `env:"CODE_TTL_SEC" envDefault:"600" validate:"min=30"`
	MaxAttempts       int    `env:"MAX_ATTEMPTS" envDefault:"5" validate:"min=1,max=20"`
	ResendCooldownSec int    `env:"RESEND_COOLDOWN_SEC" envDefault:"60" validate:"min=1"`
	ResetTokenTTLSec  int    `env:"RESET_TOKEN_TTL_SEC" envDefault:"300" validate:"min=30"`
	SessionTTLHours   int    `env:"SESSION_TTL_HOURS" envDefault:"168" validate:"min=1"`
	SweepCron         string `env:"SWEEP_CRON" envDefault:"@every 5m" validate:"required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

func (c *Config) CodeTTL() time.Duration        { return time.Duration(c.CodeTTLSec) * time.Second }
func (c *Config) ResendCooldown() time.Duration { return time.Duration(c.ResendCooldownSec) * time.Second }
func (c *Config) ResetTokenTTL() time.Duration  { return time.Duration(c.ResetTokenTTLSec) * time.Second }
func (c *Config) SessionTTL() time.Duration     { return time.Duration(c.SessionTTLHours) * time.Hour }
