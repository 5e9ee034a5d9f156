// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/eballot/alert"
	"github.com/danielhkuo/eballot/apiclient"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/storage"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "eballot"

// DotEnvFile is read from the working directory when present
const DotEnvFile = ".env"

type Config struct {
	APIBaseURL      string        `yaml:"apiBaseUrl"      envconfig:"API_BASE_URL"`
	StorageType     string        `yaml:"storageType"     envconfig:"STORAGE_TYPE"`
	StoragePath     string        `yaml:"storagePath"     envconfig:"STORAGE_PATH"`
	DatabaseURL     string        `yaml:"databaseUrl"     envconfig:"DATABASE_URL"`
	AlertTimeout    time.Duration `yaml:"alertTimeout"    envconfig:"ALERT_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"  envconfig:"REQUEST_TIMEOUT"`
	MetricsTextfile string        `yaml:"metricsTextfile" envconfig:"METRICS_TEXTFILE"`
	ResultsStatus   string        `yaml:"resultsStatus"   envconfig:"RESULTS_STATUS"`
	Debug           bool          `yaml:"debug"           envconfig:"DEBUG"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() Config {
	return Config{
		APIBaseURL:    apiclient.DefaultBaseURL,
		StorageType:   storage.TypeFile,
		AlertTimeout:  alert.DefaultTimeout,
		ResultsStatus: models.StatusActive,
	}
}

// Dir is the per-user directory holding the config file and local state
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eballot"
	}
	return filepath.Join(home, ".eballot")
}

// DefaultConfigFile is read when no config file is named
func DefaultConfigFile() string {
	return filepath.Join(Dir(), "eballot.yaml")
}

// DefaultStoragePath is where a backend keeps its data unless told otherwise
func DefaultStoragePath(storageType string) string {
	switch storageType {
	case storage.TypeBadger:
		return filepath.Join(Dir(), "badger")
	case storage.TypeSQLite:
		return filepath.Join(Dir(), "session.db")
	default:
		return filepath.Join(Dir(), "session.json")
	}
}

// Load builds the configuration in layers, each overriding the last:
// defaults, the .env file, the YAML config file, then EBALLOT_* environment
// variables. An explicit configFile must exist; the default one is optional.
// Command-line flags are applied by the caller, followed by Finalize.
func Load(configFile string) (Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error reading %s: %w", DotEnvFile, err)
	}

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile()); err == nil {
			configFile = DefaultConfigFile()
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("error processing environment: %w", err)
	}
	return cfg, nil
}

// Finalize fills values that depend on other settings and validates the result
func (c *Config) Finalize() error {
	if c.StorageType == "" {
		c.StorageType = storage.TypeFile
	}
	if c.StoragePath == "" && c.StorageType != storage.TypePostgres {
		c.StoragePath = DefaultStoragePath(c.StorageType)
	}
	if c.ResultsStatus == "" {
		c.ResultsStatus = models.StatusActive
	}
	return c.Validate()
}

// Validate reports the first setting that cannot work
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q: must be an absolute http(s) URL", c.APIBaseURL)
	}
	if !storage.ValidType(c.StorageType) {
		return fmt.Errorf("invalid storage type %q: must be file, sqlite, postgres or badger", c.StorageType)
	}
	if c.StorageType == storage.TypePostgres && c.DatabaseURL == "" {
		return errors.New("database URL required for postgres storage (use --database-url or EBALLOT_DATABASE_URL)")
	}
	if c.AlertTimeout < 0 {
		return fmt.Errorf("invalid alert timeout %s", c.AlertTimeout)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout %s", c.RequestTimeout)
	}
	if !models.ValidStatus(c.ResultsStatus) {
		return fmt.Errorf("invalid results status %q: must be upcoming, active or completed", c.ResultsStatus)
	}
	return nil
}

// Storage returns the storage settings
func (c Config) Storage() storage.Config {
	return storage.Config{
		Type:        c.StorageType,
		Path:        c.StoragePath,
		DatabaseURL: c.DatabaseURL,
	}
}
