// Package config stores the local client preferences: API endpoint, token
// and theme. Everything business-level lives on the backend; this file is
// only about reaching it and rendering.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoggingConfig mirrors internal/logging's config section.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Config holds user preferences.
type Config struct {
	APIBaseURL string        `json:"api_base_url"`
	Token      string        `json:"token,omitempty"`
	Theme      string        `json:"theme"` // "light" or "dark"
	Logging    LoggingConfig `json:"logging,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		APIBaseURL: "http://localhost:8080/api",
		Theme:      "light",
	}
}

// ConfigDir returns the directory where config is stored. A project-local
// .leadcrm directory wins over the home-level one.
func ConfigDir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".leadcrm")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".leadcrm"), nil
}

// ConfigFile returns the full path to the config file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk, applying environment overrides
// LEADCRM_API_URL and LEADCRM_TOKEN on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigFile()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("LEADCRM_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("LEADCRM_TOKEN"); v != "" {
		cfg.Token = v
	}
	return cfg
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0600)
}
