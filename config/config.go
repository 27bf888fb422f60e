// Package config loads Minerva configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
	Path   string `yaml:"path"`   // log file path; empty disables logging
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend"` // file | redis
	Path    string      `yaml:"path"`    // file backend: sessions file path
	Redis   RedisConfig `yaml:"redis"`
}

type Config struct {
	Model      string        `yaml:"model"`
	TitleModel string        `yaml:"title_model"`
	Log        LogConfig     `yaml:"log"`
	Storage    StorageConfig `yaml:"storage"`
}

// Load reads the config file at path. A missing file is not an error; the
// returned config then carries defaults only.
func Load(path string) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultSessionsPath()
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = "localhost:6379"
	}

	// Minimal validation
	switch cfg.Storage.Backend {
	case "file", "redis":
	default:
		return nil, fmt.Errorf("storage.backend must be file or redis, got %q", cfg.Storage.Backend)
	}

	return &cfg, nil
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/minerva/config.yaml or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "minerva", "config.yaml")
}

func defaultSessionsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sessions.json"
	}
	return filepath.Join(dir, "minerva", "sessions.json")
}
