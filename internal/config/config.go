// Package config loads spacedrep settings from flags, environment, an
// optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config,
// e.g. SPACEDREP_LOG_LEVEL for log-level.
const EnvPrefix = "SPACEDREP_"

// Config holds the settings of the host shell.
type Config struct {
	// DataDir is the per-user directory holding the database.
	DataDir string `koanf:"data-dir" validate:"required"`
	// DB is the database file; relative paths resolve against DataDir.
	DB string `koanf:"db" validate:"required"`
	// Addr is the listen address of the JSON API.
	Addr string `koanf:"addr" validate:"required"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log-level" validate:"oneof=debug info warn error"`
	// RemindAt is the HH:MM local time of the daily due-review digest.
	RemindAt string `koanf:"remind-at" validate:"datetime=15:04"`
}

// DefaultDataDir is ~/Documents/spacedrep, or ./spacedrep if the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "spacedrep"
	}
	return filepath.Join(home, "Documents", "spacedrep")
}

// RegisterFlags adds the config flags, with their defaults, to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a YAML config file (default <data-dir>/config.yaml)")
	flags.String("data-dir", DefaultDataDir(), "Directory holding the study database")
	flags.String("db", "study_data.db", "SQLite database file, relative to --data-dir unless absolute")
	flags.String("addr", "127.0.0.1:8247", "Listen address of the JSON API")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("remind-at", "09:00", "Local time (HH:MM) of the daily review digest")
}

// Load builds the configuration. Later sources override earlier ones:
// flag defaults, YAML file, .env file and environment, explicitly set flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Flag defaults (and explicit flags) first: they locate the config file.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	path := k.String("config")
	if path == "" {
		path = filepath.Join(k.String("data-dir"), "config.yaml")
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// A missing .env file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Keys now exist, so only flags set on the command line are merged again.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps SPACEDREP_LOG_LEVEL to log-level.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DBPath returns the absolute or DataDir-relative database path.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DB) {
		return c.DB
	}
	return filepath.Join(c.DataDir, c.DB)
}
