// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BLOG_PORT", "BLOG_BACKEND", "BLOG_DATA_DIR", "BLOG_LOG_LEVEL", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
	}
	if cfg.DataDir != "database" {
		t.Errorf("DataDir = %q, want database", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "port: 9000\nbackend: json\ndata_dir: /tmp/blog-data\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9000 || cfg.Backend != BackendJSON || cfg.DataDir != "/tmp/blog-data" {
		t.Errorf("Load() = %+v, want values from file", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9000\nbackend: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BLOG_PORT", "9001")
	t.Setenv("BLOG_BACKEND", "sqlite")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9001 {
		t.Errorf("Port = %d, want env override 9001", cfg.Port)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want env override sqlite", cfg.Backend)
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q, want sk-test", cfg.OpenAIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "backend: postgres\n"},
		{"port out of range", "port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{DataDir: "database"}
	if got := cfg.JSONPath(); got != filepath.Join("database", "posts.json") {
		t.Errorf("JSONPath() = %q", got)
	}
	if got := cfg.DBPath(); got != filepath.Join("database", "blog.db") {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestLoadInvalidEnvPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOG_PORT", "not-a-port")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for invalid BLOG_PORT")
	}
}
