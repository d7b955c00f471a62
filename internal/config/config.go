// Package config loads and saves habitual's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment overrides, applied on top of the config file.
const (
	EnvDataFile = "HABITUAL_DATA_FILE"
	EnvBackend  = "HABITUAL_BACKEND"
)

// Config holds all habitual configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds storage preferences.
type GeneralConfig struct {
	Backend  string `toml:"backend"`
	DataFile string `toml:"data_file,omitempty"`
	DBPath   string `toml:"db_path,omitempty"`
	Autosave bool   `toml:"autosave"`
	History  int    `toml:"history"` // snapshots kept by the sqlite backend
}

// DaemonConfig holds local daemon settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
	Watch        bool   `toml:"watch"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Backend:  "json",
			Autosave: true,
			History:  20,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8797",
			EventsBuffer: 200,
			Watch:        true,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "habitual")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "habitual")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
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
	if v := strings.TrimSpace(os.Getenv(EnvDataFile)); v != "" {
		cfg.General.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		cfg.General.Backend = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
