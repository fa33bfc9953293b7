// Package config handles loading and saving plateview configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/pv/config.yaml
//   - State:   ~/.local/state/pv/ (log file)
//
// Values are layered: built-in defaults, then the YAML file, then PV_*
// environment variables (PV_DATA_LOCATION -> data.location).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PV_"

// DataConfig says where the analytics documents live and how to fetch them.
type DataConfig struct {
	Location        string        `koanf:"location" yaml:"location"` // http(s) base URL or directory
	Timeout         time.Duration `koanf:"timeout" yaml:"timeout"`
	BreakerFailures int           `koanf:"breaker_failures" yaml:"breaker_failures"`
	Watch           bool          `koanf:"watch" yaml:"watch"` // directory sources only
}

// DashboardConfig tunes the derived panels.
type DashboardConfig struct {
	CustomerSophistication int `koanf:"customer_sophistication" yaml:"customer_sophistication"`
	TopCompetitors         int `koanf:"top_competitors" yaml:"top_competitors"`
	DishLimit              int `koanf:"dish_limit" yaml:"dish_limit"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme    string `koanf:"theme" yaml:"theme"` // auto, dark, light
	Markdown bool   `koanf:"markdown" yaml:"markdown"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // json, console
	File   string `koanf:"file" yaml:"file"`
}

// Config is the top-level configuration for pv.
type Config struct {
	Data      DataConfig      `koanf:"data" yaml:"data"`
	Dashboard DashboardConfig `koanf:"dashboard" yaml:"dashboard"`
	UI        UIConfig        `koanf:"ui" yaml:"ui"`
	Logging   LoggingConfig   `koanf:"logging" yaml:"logging"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	logFile := ""
	if dir := StateDir(); dir != "" {
		logFile = filepath.Join(dir, "pv.log")
	}
	return Config{
		Data: DataConfig{
			Location:        "data",
			Timeout:         15 * time.Second,
			BreakerFailures: 5,
			Watch:           true,
		},
		Dashboard: DashboardConfig{
			CustomerSophistication: 70,
			TopCompetitors:         5,
			DishLimit:              8,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   logFile,
		},
	}
}

// Validate rejects values the dashboard cannot work with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.Location) == "" {
		errs = append(errs, errors.New("data.location must not be empty"))
	}
	if c.Data.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("data.timeout must be positive, got %s", c.Data.Timeout))
	}
	if c.Data.BreakerFailures < 1 {
		errs = append(errs, fmt.Errorf("data.breaker_failures must be at least 1, got %d", c.Data.BreakerFailures))
	}
	if s := c.Dashboard.CustomerSophistication; s < 0 || s > 100 {
		errs = append(errs, fmt.Errorf("dashboard.customer_sophistication must be within 0..100, got %d", s))
	}
	if c.Dashboard.TopCompetitors < 1 {
		errs = append(errs, fmt.Errorf("dashboard.top_competitors must be at least 1, got %d", c.Dashboard.TopCompetitors))
	}
	if c.Dashboard.DishLimit < 1 {
		errs = append(errs, fmt.Errorf("dashboard.dish_limit must be at least 1, got %d", c.Dashboard.DishLimit))
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("ui.theme must be auto, dark or light, got %q", c.UI.Theme))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the XDG config directory for pv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pv")
}

// StateDir returns the XDG state directory for pv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "pv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "pv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig (plus env overrides) if the file doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom layers defaults, the file at path (skipped when path is empty or
// missing) and PV_* environment variables, then validates the result.
func LoadFrom(path string) (Config, error) {
	defaults := DefaultConfig()
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return defaults, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return defaults, fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return defaults, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return defaults, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return defaults, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Data.Location = expandHome(cfg.Data.Location)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps PV_DASHBOARD_TOP_COMPETITORS to dashboard.top_competitors.
// Variables without a section (PV_DEBUG) are skipped.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok || field == "" {
		return ""
	}
	switch section {
	case "data", "dashboard", "ui", "logging":
		return section + "." + field
	}
	return ""
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
