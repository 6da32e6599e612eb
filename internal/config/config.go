// Package config loads the client configuration from an optional YAML file
// with environment overrides.
//
// Resolution order, later wins:
//
//	built-in defaults < libraryctl.yaml < .env file < process environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "libraryctl.yaml"

// Environment variable names recognized as overrides.
const (
	EnvAPIURL         = "LIBRARY_API_URL"
	EnvStorageScope   = "LIBRARY_STORAGE_SCOPE"
	EnvDatabasePath   = "LIBRARY_DB_PATH"
	EnvRequestTimeout = "LIBRARY_REQUEST_TIMEOUT"
)

// Config models libraryctl.yaml.
type Config struct {
	// APIURL is the backend base URL.
	APIURL string `yaml:"api_url"`

	// StorageScope selects where login state is persisted:
	// "durable" survives restarts, "session" lives for one process.
	StorageScope string `yaml:"storage_scope"`

	// DatabasePath locates the durable auth database. Empty means a
	// per-user default under the OS config directory.
	DatabasePath string `yaml:"database_path"`

	// RequestTimeout bounds a single backend request, as a Go duration
	// string ("10s"). Empty keeps the client default.
	RequestTimeout string `yaml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:       "http://localhost:8080",
		StorageScope: "durable",
	}
}

// Load reads configuration from path. An empty path means DefaultFileName;
// a missing file is not an error and yields defaults plus env overrides.
func Load(path string) (Config, error) {
	// A .env next to the binary feeds the process environment; absence is fine.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file, defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvStorageScope); v != "" {
		cfg.StorageScope = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		cfg.RequestTimeout = v
	}
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return errors.New("config: api_url must not be empty")
	}
	if c.StorageScope != "durable" && c.StorageScope != "session" {
		return fmt.Errorf("config: storage_scope %q must be \"durable\" or \"session\"", c.StorageScope)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses RequestTimeout. Zero means "use the client default".
func (c Config) Timeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: request_timeout %q is not a positive duration", c.RequestTimeout)
	}
	return d, nil
}

// ResolveDatabasePath returns the configured durable database path, or the
// per-user default, creating parent directories as needed.
func (c Config) ResolveDatabasePath() (string, error) {
	path := c.DatabasePath
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(base, "libraryctl", "auth.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create database dir: %w", err)
	}
	return path, nil
}
