package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Dataset DatasetConfig
	Store   StoreConfig
	SMTP    SMTPConfig
	Alerts  AlertsConfig
}

// AppConfig holds process level settings
type AppConfig struct {
	Name     string `default:"herdscope"`
	Env      string `default:"development"`
	LogLevel string `default:"info"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string   `default:"0.0.0.0"`
	Port           int      `default:"5000"`
	AllowedOrigins []string `default:"[\"*\"]"`
}

// DatasetConfig points at the product metrics file
type DatasetConfig struct {
	Path string `default:"fake_data.csv"`
}

// StoreConfig holds the dispatch log location
type StoreConfig struct {
	Path string `default:"herdscope.db"`
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string        `default:"smtp.gmail.com"`
	Port     int           `default:"465"`
	Username string
	Password string
	Timeout  time.Duration `default:"30s"`
}

// AlertsConfig holds alert recipients
type AlertsConfig struct {
	DefaultRecipients []string
}

// Enabled reports whether credentials are present.
func (c SMTPConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// MarshalZerologObject logs the SMTP settings without the password.
func (c SMTPConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Str("host", c.Host).
		Int("port", c.Port).
		Str("username", c.Username).
		Bool("password_set", c.Password != "").
		Dur("timeout", c.Timeout)
}

// Load loads configuration from struct defaults, an optional .env file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigins = getEnvAsList("ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)

	cfg.Dataset.Path = getEnv("DATASET_PATH", cfg.Dataset.Path)
	cfg.Store.Path = getEnv("STORE_PATH", cfg.Store.Path)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvAsInt("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = getEnv("EMAIL_USER", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("EMAIL_PASS", cfg.SMTP.Password)
	cfg.SMTP.Timeout = getEnvAsDuration("SMTP_TIMEOUT", cfg.SMTP.Timeout)

	cfg.Alerts.DefaultRecipients = getEnvAsList("DEFAULT_RECIPIENTS", cfg.Alerts.DefaultRecipients)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port)
	}
	if cfg.SMTP.Timeout <= 0 {
		return nil, fmt.Errorf("invalid SMTP_TIMEOUT %s", cfg.SMTP.Timeout)
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
