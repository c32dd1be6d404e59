// Package config loads and saves budgetbuddy settings.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

// Environment overrides.
const (
	EnvDataset = "BUDGETBUDDY_DATASET"
	EnvDB      = "BUDGETBUDDY_DB"
)

// Config holds all budgetbuddy configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Dataset     string `toml:"dataset"`
	Granularity string `toml:"granularity"`
	HorizonDays int    `toml:"horizon_days"`
	DataDir     string `toml:"data_dir,omitempty"` // CSV statements to import
	DBPath      string `toml:"db_path,omitempty"`
}

// DaemonConfig holds settings for the background API server.
type DaemonConfig struct {
	Addr     string `toml:"addr"`
	Interval string `toml:"interval"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Dataset:     "default",
			Granularity: string(model.Monthly),
			HorizonDays: 370,
		},
		Daemon: DaemonConfig{
			Addr:     "127.0.0.1:8787",
			Interval: "30s",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetbuddy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetbuddy")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is loaded first, and environment
// overrides are applied last.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path and applies environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDataset)); v != "" {
		cfg.General.Dataset = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		cfg.General.DBPath = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// PollInterval returns the daemon poll interval, or 30s when unset or invalid.
func (c Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.General.Dataset) == "" {
		errs = append(errs, errors.New("general.dataset cannot be empty"))
	}
	if _, err := model.ParseGranularity(c.General.Granularity); err != nil {
		errs = append(errs, fmt.Errorf("general.granularity: %w", err))
	}
	if c.General.HorizonDays < 0 {
		errs = append(errs, fmt.Errorf("general.horizon_days %d: must not be negative", c.General.HorizonDays))
	}
	if c.General.DataDir != "" {
		if info, err := os.Stat(c.General.DataDir); err == nil && !info.IsDir() {
			errs = append(errs, fmt.Errorf("general.data_dir %q is not a directory", c.General.DataDir))
		}
	}

	if c.Daemon.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Daemon.Addr); err != nil {
			errs = append(errs, fmt.Errorf("daemon.addr %q: %w", c.Daemon.Addr, err))
		}
	}
	if c.Daemon.Interval != "" {
		if d, err := time.ParseDuration(c.Daemon.Interval); err != nil {
			errs = append(errs, fmt.Errorf("daemon.interval %q: %w", c.Daemon.Interval, err))
		} else if d < time.Second {
			errs = append(errs, fmt.Errorf("daemon.interval %s: must be at least 1s", d))
		}
	}

	return errors.Join(errs...)
}
