package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/niva-data/ndbview/services/api/reconcile"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL            string
	Port                   int
	BearerToken            string
	RequestTimeout         time.Duration
	DefaultLODs            bool
	DefaultCollapseAliases bool
	TieBreak               reconcile.TieBreak
	EnablePprof            bool
	LogLevel               logrus.Level
	LogFormat              string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("API_REQUEST_TIMEOUT", "30s")
	v.SetDefault("API_DEFAULT_LODS", "true")
	v.SetDefault("API_DEFAULT_COLLAPSE_ALIASES", "false")
	v.SetDefault("API_ENABLE_PPROF", "false")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	cfg := Config{Port: 8080}

	cfg.DatabaseURL = strings.TrimSpace(v.GetString("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := v.GetString("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := v.GetString("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("API_REQUEST_TIMEOUT")))
	if err != nil || timeout <= 0 {
		return cfg, fmt.Errorf("invalid API_REQUEST_TIMEOUT: %s", v.GetString("API_REQUEST_TIMEOUT"))
	}
	cfg.RequestTimeout = timeout

	if cfg.DefaultLODs, err = parseBool(v, "API_DEFAULT_LODS"); err != nil {
		return cfg, err
	}
	if cfg.DefaultCollapseAliases, err = parseBool(v, "API_DEFAULT_COLLAPSE_ALIASES"); err != nil {
		return cfg, err
	}
	if cfg.EnablePprof, err = parseBool(v, "API_ENABLE_PPROF"); err != nil {
		return cfg, err
	}

	if cfg.TieBreak, err = reconcile.ParseTieBreak(v.GetString("API_TIE_BREAK")); err != nil {
		return cfg, fmt.Errorf("invalid API_TIE_BREAK: %w", err)
	}

	if cfg.LogLevel, err = logrus.ParseLevel(v.GetString("LOG_LEVEL")); err != nil {
		return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT")))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return cfg, fmt.Errorf("invalid LOG_FORMAT: %s", cfg.LogFormat)
	}

	cfg.BearerToken = v.GetString("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return b, nil
}
