// Package config loads mtatools configuration from defaults, the global and
// local JSON config files, and MTATOOLS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration.
const EnvPrefix = "MTATOOLS_"

// DefaultLocalPath is the project-level configuration file.
const DefaultLocalPath = ".mtatools/config.json"

// Configuration represents the mtatools configuration
type Configuration struct {
	MbtCmd                string `koanf:"mbt_cmd" validate:"required"`
	CFCmd                 string `koanf:"cf_cmd" validate:"required"`
	CFHome                string `koanf:"cf_home"`
	LogLevel              string `koanf:"log_level" validate:"oneof=error warn info debug trace"`
	Exclude               string `koanf:"exclude"`
	CommandTimeout        int    `koanf:"command_timeout" validate:"min=1,max=3600"`
	RevalidateConcurrency int    `koanf:"revalidate_concurrency" validate:"min=1,max=64"`
	DebounceMs            int    `koanf:"debounce_ms" validate:"min=0,max=10000"`
	Color                 bool   `koanf:"color"`
	StateDir              string `koanf:"state_dir" validate:"required"`
	MaxHistoryEntries     int    `koanf:"max_history_entries" validate:"min=0,max=10000"`
	Notify                bool   `koanf:"notify"`
	NotifyThreshold       int    `koanf:"notify_threshold" validate:"min=0,max=86400"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if globalPath := GlobalPath(); globalPath != "" {
		if err := loadFileIfExists(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFileIfExists(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.CFHome = expandHomePath(cfg.CFHome)
	cfg.StateDir = expandHomePath(cfg.StateDir)

	return &cfg, nil
}

// GlobalPath returns ~/.mtatools/config.json, or "" when the home directory is unknown.
func GlobalPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".mtatools", "config.json")
}

// CommandTimeoutDuration returns the subprocess timeout for tool detection.
func (c *Configuration) CommandTimeoutDuration() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

// NotifyThresholdDuration returns the minimum task duration that triggers a
// desktop notification.
func (c *Configuration) NotifyThresholdDuration() time.Duration {
	return time.Duration(c.NotifyThreshold) * time.Second
}

// Debounce returns the watcher debounce interval; zero disables debouncing.
func (c *Configuration) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return k.Load(file.Provider(path), json.Parser())
}

// envTransform converts environment variable names to config keys
// Example: MTATOOLS_MBT_CMD -> mbt_cmd
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
