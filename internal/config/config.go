// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	DBPath        string
	SessionSecret string // empty disables the viewer cookie
	Environment   string
	LogLevel      string
}

// Load reads the configuration. Callers that want .env support should load
// the files into the environment first.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnvWithDefault("DB_PATH", "data/forum.db"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
	}

	portStr := getEnvWithDefault("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("config: invalid PORT %q", portStr)
	}
	cfg.Port = port

	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < 16 {
		return nil, fmt.Errorf("config: SESSION_SECRET must be at least 16 characters")
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the process logger: JSON in production, text elsewhere.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
