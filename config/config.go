// config/config.go

// Package config loads server configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port      int    `yaml:"port"`
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir"`
	LogLevel  string `yaml:"log_level"`
	OpenAIKey string `yaml:"openai_api_key"`
}

// Load reads the YAML file at path, fills in defaults, and applies
// environment overrides (BLOG_PORT, BLOG_BACKEND, BLOG_DATA_DIR,
// BLOG_LOG_LEVEL, OPENAI_API_KEY). A missing file is not an error; the
// server runs fine on defaults alone.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "database"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if v := os.Getenv("BLOG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BLOG_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("BLOG_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("BLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("BLOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Backend != BackendJSON && c.Backend != BackendSQLite {
		return fmt.Errorf("backend must be %q or %q, got %q", BackendJSON, BackendSQLite, c.Backend)
	}
	return nil
}

// JSONPath is the flat-file backend's data file.
func (c *Config) JSONPath() string {
	return filepath.Join(c.DataDir, "posts.json")
}

// DBPath is the SQLite backend's database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "blog.db")
}
