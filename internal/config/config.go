// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	BaseURL           string
	APILogin          string
	ArchivePath       string
	LogFile           string
	LogLevel          string
	Timeout           time.Duration
	SlowCallThreshold time.Duration
	ArchiveRetention  time.Duration
}

// Default values
const (
	DefaultBaseURL           = "https://api-ru.iiko.services/api/1"
	defaultTimeout           = 60 * time.Second
	defaultSlowCallThreshold = 5 * time.Second
	defaultArchiveRetention  = 30 * 24 * time.Hour
	defaultLogLevel          = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		BaseURL:           strings.TrimRight(getEnvString("IIKO_BASE_URL", DefaultBaseURL), "/"),
		APILogin:          getEnvString("IIKO_API_LOGIN", ""),
		Timeout:           getEnvDuration("IIKO_TIMEOUT", defaultTimeout),
		ArchivePath:       expandHome(getEnvString("ARCHIVE_PATH", "")),
		ArchiveRetention:  getEnvDuration("ARCHIVE_RETENTION", defaultArchiveRetention),
		SlowCallThreshold: getEnvDuration("SLOW_CALL_THRESHOLD", defaultSlowCallThreshold),
		LogFile:           expandHome(getEnvString("LOG_FILE", "")),
		LogLevel:          getEnvString("LOG_LEVEL", defaultLogLevel),
	}

	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}

	if cfg.ArchivePath != "" {
		if err := ensureDir(filepath.Dir(cfg.ArchivePath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ArchiveEnabled reports whether calls are also written to the SQLite archive.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchivePath != ""
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid IIKO_BASE_URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid IIKO_BASE_URL %q: must be an absolute http(s) URL", raw)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "iiko-checker", ".env"),
			filepath.Join(home, ".iiko-checker", ".env"),
		)
	}

	return paths
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
