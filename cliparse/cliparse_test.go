// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at fresh temp dirs
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "EBALLOT_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("expected default API URL, got %s", cfg.APIBaseURL)
	}
	if cfg.StorageType != "file" {
		t.Errorf("expected file storage, got %s", cfg.StorageType)
	}
	if want := filepath.Join(home, ".eballot", "session.json"); cfg.StoragePath != want {
		t.Errorf("expected storage path %s, got %s", want, cfg.StoragePath)
	}
	if cfg.AlertTimeout != 5*time.Second {
		t.Errorf("expected 5s alert timeout, got %s", cfg.AlertTimeout)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("expected no request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.ResultsStatus != "active" {
		t.Errorf("expected active results status, got %s", cfg.ResultsStatus)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "custom.yaml")
	writeFile(t, path, `
apiBaseUrl: https://vote.example.com/api
storageType: sqlite
alertTimeout: 2s
requestTimeout: 30s
resultsStatus: completed
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	if cfg.APIBaseURL != "https://vote.example.com/api" {
		t.Errorf("expected URL from file, got %s", cfg.APIBaseURL)
	}
	if cfg.StorageType != "sqlite" || !strings.HasSuffix(cfg.StoragePath, "session.db") {
		t.Errorf("expected sqlite at session.db, got %s at %s", cfg.StorageType, cfg.StoragePath)
	}
	if cfg.AlertTimeout != 2*time.Second || cfg.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected timeouts %s, %s", cfg.AlertTimeout, cfg.RequestTimeout)
	}
	if cfg.ResultsStatus != "completed" {
		t.Errorf("expected completed, got %s", cfg.ResultsStatus)
	}
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".eballot", "eballot.yaml"), "storageType: badger\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.StorageType != "badger" {
		t.Errorf("expected badger from default config file, got %s", cfg.StorageType)
	}
	if want := filepath.Join(home, ".eballot", "badger"); cfg.StoragePath != want {
		t.Errorf("expected %s, got %s", want, cfg.StoragePath)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := Load("/nonexistent/eballot.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "eballot.yaml")
	writeFile(t, path, "apiBaseUrl: http://file.example/api\nstorageType: sqlite\n")
	t.Setenv("EBALLOT_API_BASE_URL", "http://env.example/api")
	t.Setenv("EBALLOT_ALERT_TIMEOUT", "750ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIBaseURL != "http://env.example/api" {
		t.Errorf("env should override file: got %s", cfg.APIBaseURL)
	}
	if cfg.StorageType != "sqlite" {
		t.Errorf("file value should survive when env is unset: got %s", cfg.StorageType)
	}
	if cfg.AlertTimeout != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %s", cfg.AlertTimeout)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".env"), "EBALLOT_STORAGE_TYPE=postgres\nEBALLOT_DATABASE_URL=postgres://localhost/eballot\n")
	t.Cleanup(func() {
		os.Unsetenv("EBALLOT_STORAGE_TYPE")
		os.Unsetenv("EBALLOT_DATABASE_URL")
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	if cfg.StorageType != "postgres" || cfg.DatabaseURL != "postgres://localhost/eballot" {
		t.Errorf("expected postgres from .env, got %s %s", cfg.StorageType, cfg.DatabaseURL)
	}
	if cfg.StoragePath != "" {
		t.Errorf("postgres needs no storage path, got %s", cfg.StoragePath)
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolate(t)
	t.Setenv("EBALLOT_REQUEST_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"relative url", func(c *Config) { c.APIBaseURL = "/api" }, "API base URL"},
		{"ftp url", func(c *Config) { c.APIBaseURL = "ftp://host/api" }, "API base URL"},
		{"unknown storage", func(c *Config) { c.StorageType = "redis" }, "storage type"},
		{"postgres without url", func(c *Config) { c.StorageType = "postgres" }, "database URL"},
		{"negative alert timeout", func(c *Config) { c.AlertTimeout = -time.Second }, "alert timeout"},
		{"negative request timeout", func(c *Config) { c.RequestTimeout = -time.Second }, "request timeout"},
		{"bad results status", func(c *Config) { c.ResultsStatus = "draft" }, "results status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStorageConfig(t *testing.T) {
	cfg := Config{StorageType: "sqlite", StoragePath: "/tmp/s.db", DatabaseURL: "x"}
	sc := cfg.Storage()
	if sc.Type != "sqlite" || sc.Path != "/tmp/s.db" || sc.DatabaseURL != "x" {
		t.Errorf("unexpected storage config %+v", sc)
	}
}
