package config

import (
	"Cryptext/internal/core/domain"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinKDFIterations is the lowest PBKDF2 iteration count we accept.
const MinKDFIterations = 10_000

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	LogLevel      string
	DefaultMethod domain.EncryptionMethod
	SessionTTL    time.Duration
	KDFIterations int
	Bot           BotConfig
}

// BotConfig holds the Telegram shell settings.
type BotConfig struct {
	Token   string
	Mode    string // "polling" or "webhook"
	Polling PollingConfig
	Webhook WebhookConfig
}

type PollingConfig struct {
	WorkerPoolSize int
}

type WebhookConfig struct {
	URL        string
	ListenPort int
}

// envBindings maps viper keys to environment variable names.
var envBindings = map[string]string{
	"app.env":           "APP_ENV",
	"log.level":         "LOG_LEVEL",
	"crypto.method":     "DEFAULT_METHOD",
	"crypto.iterations": "KDF_ITERATIONS",
	"session.ttl":       "SESSION_TTL",
	"bot.token":         "BOT_TOKEN",
	"bot.mode":          "BOT_MODE",
	"bot.workers":       "BOT_WORKER_POOL_SIZE",
	"bot.webhook.url":   "BOT_WEBHOOK_URL",
	"bot.webhook.port":  "BOT_WEBHOOK_PORT",
}

func newViper() (*viper.Viper, error) {
	v := viper.New()

	// Explicitly bind viper keys to env var names
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("crypto.method", string(domain.MethodAES))
	v.SetDefault("crypto.iterations", 100_000)
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.workers", 4)
	v.SetDefault("bot.webhook.port", 8443)
	return v, nil
}

// Load loads configuration from the environment (and .env, when present).
func Load() (*Config, error) {
	// A missing .env is fine, we fall back to OS-set env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBot is Load plus the settings only the bot binary needs.
func LoadBot() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Bot.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	method, err := domain.ParseMethod(v.GetString("crypto.method"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_METHOD: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL must be a duration like 30m: %w", err)
	}

	return &Config{
		AppEnv:        v.GetString("app.env"),
		LogLevel:      v.GetString("log.level"),
		DefaultMethod: method,
		SessionTTL:    ttl,
		KDFIterations: v.GetInt("crypto.iterations"),
		Bot: BotConfig{
			Token: v.GetString("bot.token"),
			Mode:  v.GetString("bot.mode"),
			Polling: PollingConfig{
				WorkerPoolSize: v.GetInt("bot.workers"),
			},
			Webhook: WebhookConfig{
				URL:        v.GetString("bot.webhook.url"),
				ListenPort: v.GetInt("bot.webhook.port"),
			},
		},
	}, nil
}

// Validate checks the settings shared by every binary.
func (c *Config) Validate() error {
	if c.KDFIterations < MinKDFIterations {
		return fmt.Errorf("KDF_ITERATIONS must be at least %d, but got %d", MinKDFIterations, c.KDFIterations)
	}
	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	return nil
}

// Validate checks the Telegram settings.
func (b *BotConfig) Validate() error {
	if b.Token == "" {
		return errors.New("BOT_TOKEN is not set in environment or .env file")
	}
	if b.Polling.WorkerPoolSize < 1 {
		return fmt.Errorf("BOT_WORKER_POOL_SIZE must be positive, but got %d", b.Polling.WorkerPoolSize)
	}

	switch b.Mode {
	case "polling":
	case "webhook":
		if b.Webhook.URL == "" {
			return errors.New("BOT_WEBHOOK_URL is required in webhook mode")
		}
		if b.Webhook.ListenPort <= 0 || b.Webhook.ListenPort > 65535 {
			return fmt.Errorf("BOT_WEBHOOK_PORT is out of range: %d", b.Webhook.ListenPort)
		}
	default:
		return fmt.Errorf("BOT_MODE must be polling or webhook, but got %q", b.Mode)
	}
	return nil
}

// IsDev reports whether the app runs in a development environment.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}
