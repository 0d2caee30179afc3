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
	"github.com/niva-data/ndbview/services/exporter/internal/csvout"
)

const (
	defaultOutput          = "chemistry.csv"
	defaultConflictsOutput = "conflicts.csv"
	defaultTimeout         = 5 * time.Minute
)

// Config holds runtime configuration for the exporter.
type Config struct {
	DatabaseURL     string
	StationIDs      []int64
	ParameterIDs    []int64
	Dates           reconcile.DateRange
	Options         reconcile.Options
	Output          string
	ConflictsOutput string
	Missing         string
	Timeout         time.Duration
	DryRun          bool
	LogLevel        logrus.Level
	LogFormat       string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("EXPORT_LODS", "true")
	v.SetDefault("EXPORT_COLLAPSE_ALIASES", "false")
	v.SetDefault("EXPORT_OUTPUT", defaultOutput)
	v.SetDefault("EXPORT_CONFLICTS_OUTPUT", defaultConflictsOutput)
	v.SetDefault("EXPORT_TIMEOUT", defaultTimeout.String())
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	cfg := Config{}

	cfg.DatabaseURL = strings.TrimSpace(v.GetString("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	var err error
	if cfg.StationIDs, err = parseIDs(v, "EXPORT_STATIONS", "station"); err != nil {
		return cfg, err
	}
	if cfg.ParameterIDs, err = parseIDs(v, "EXPORT_PARAMETERS", "parameter"); err != nil {
		return cfg, err
	}
	if cfg.Dates, err = reconcile.ParseDateRange(v.GetString("EXPORT_START"), v.GetString("EXPORT_END")); err != nil {
		return cfg, fmt.Errorf("invalid EXPORT_START/EXPORT_END: %w", err)
	}

	if cfg.Options.IncludeFlags, err = parseBool(v, "EXPORT_LODS"); err != nil {
		return cfg, err
	}
	if cfg.Options.CollapseAliases, err = parseBool(v, "EXPORT_COLLAPSE_ALIASES"); err != nil {
		return cfg, err
	}
	if cfg.Options.TieBreak, err = reconcile.ParseTieBreak(v.GetString("EXPORT_TIE_BREAK")); err != nil {
		return cfg, fmt.Errorf("invalid EXPORT_TIE_BREAK: %w", err)
	}

	cfg.Output = strings.TrimSpace(v.GetString("EXPORT_OUTPUT"))
	if cfg.Output == "" {
		return cfg, errors.New("EXPORT_OUTPUT must not be empty")
	}
	cfg.ConflictsOutput = strings.TrimSpace(v.GetString("EXPORT_CONFLICTS_OUTPUT"))
	cfg.Missing = v.GetString("EXPORT_MISSING")
	if cfg.Missing == csvout.NullText {
		return cfg, fmt.Errorf("invalid EXPORT_MISSING: %q is reserved for null values", cfg.Missing)
	}

	cfg.Timeout, err = time.ParseDuration(strings.TrimSpace(v.GetString("EXPORT_TIMEOUT")))
	if err != nil || cfg.Timeout <= 0 {
		return cfg, fmt.Errorf("invalid EXPORT_TIMEOUT: %s", v.GetString("EXPORT_TIMEOUT"))
	}

	dryRun := strings.TrimSpace(v.GetString("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	if cfg.LogLevel, err = logrus.ParseLevel(v.GetString("LOG_LEVEL")); err != nil {
		return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT")))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return cfg, fmt.Errorf("invalid LOG_FORMAT: %s", cfg.LogFormat)
	}

	return cfg, nil
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

// parseIDs reads a comma separated id list and normalizes it.
func parseIDs(v *viper.Viper, key, kind string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(v.GetString(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q is not an id", key, part)
		}
		ids = append(ids, id)
	}
	ids, err := reconcile.NormalizeSelection(kind, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return ids, nil
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return b, nil
}
