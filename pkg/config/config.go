// Package config provides the layered configuration for pveforge:
// fixed defaults, the global YAML config file, process environment, and
// command flags, applied in that order. Configuration is resolved once
// at startup and passed into the sequencer by value.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current config schema version.
const Version = "1.0"

// Config is the global operator configuration stored at
// ~/.config/pveforge/config.yaml.
type Config struct {
	Version         string `yaml:"version"`
	DefaultStorage  string `yaml:"default_storage"`  // rootfs pool
	TemplateStorage string `yaml:"template_storage"` // vztmpl pool
	DefaultBridge   string `yaml:"default_bridge"`
	CredentialsLog  string `yaml:"credentials_log"`
	InventoryDir    string `yaml:"inventory_dir"`
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Version:         Version,
		DefaultStorage:  "local-lvm",
		TemplateStorage: "local",
		DefaultBridge:   "vmbr0",
		CredentialsLog:  filepath.Join(home, ".local", "share", "pveforge", "credentials.log"),
		InventoryDir:    filepath.Join(home, ".local", "share", "pveforge", "inventory"),
	}
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pveforge", "config.yaml"), nil
}

// Load reads the config file, or returns defaults when none exists.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config file, creating the directory as needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
