// Package config loads server configuration.
//
// Precedence, highest first: command-line flag, environment variable,
// .env file, built-in default.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPassword is used when APP_PASSWORD is unset. The server logs a warning when it is active.
const DefaultPassword = "demo123"

// Config holds all server configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Environment string // development, staging, production
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string
	Format string // pretty or json; empty picks by environment
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	DataPath     string // base directory, holds the auth key
	DatabasePath string // SQLite file
	UploadsPath  string // attachment files, served at /uploads
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// AuthConfig holds single-user login settings.
type AuthConfig struct {
	Password        string
	SessionDuration time.Duration
	SecureCookies   bool

	// SessionKey is filled in from the key file at startup, never from flags or env.
	SessionKey []byte
}

// UsingDefaultPassword reports whether the built-in demo password is active.
func (c *Config) UsingDefaultPassword() bool {
	return c.Auth.Password == DefaultPassword
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load parses args as flags and resolves the rest from the environment.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("promptshelf", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (pretty, json)")
	dataPath := fs.String("data-path", "", "Base directory for server data")
	databasePath := fs.String("database-path", "", "SQLite database file (default: <data-path>/prompts.db)")
	uploadsPath := fs.String("uploads-path", "", "Attachment directory (default: <data-path>/uploads)")
	port := fs.String("port", "", "Server port (default: 3001)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")
	password := fs.String("app-password", "", "Login password")
	sessionDuration := fs.String("session-duration", "", "Login session lifetime (default: 168h)")
	secureCookies := fs.String("secure-cookies", "", "Mark session cookies Secure (default: true in production)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is normal; godotenv never overrides variables already set.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	environment := getConfigValue(*env, "ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Environment: environment,
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Storage: StorageConfig{
			DataPath:     getConfigValue(*dataPath, "DATA_PATH", ""),
			DatabasePath: getConfigValue(*databasePath, "DATABASE_PATH", ""),
			UploadsPath:  getConfigValue(*uploadsPath, "UPLOADS_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*port, "SERVER_PORT", "3001"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "http://localhost:5173")),
		},
		Auth: AuthConfig{
			Password:      getConfigValue(*password, "APP_PASSWORD", DefaultPassword),
			SecureCookies: getBoolConfigValue(*secureCookies, "SECURE_COOKIES", environment == "production"),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*sessionDuration, "SESSION_DURATION", "168h", &cfg.Auth.SessionDuration},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "pretty", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be pretty or json)", c.Logger.Format)
	}

	if c.Storage.DatabasePath == "" || c.Storage.UploadsPath == "" {
		return errors.New("database and uploads paths cannot be empty after expansion")
	}

	if c.Auth.Password == "" {
		return errors.New("APP_PASSWORD cannot be empty")
	}

	if c.Auth.SessionDuration <= 0 {
		return errors.New("session duration must be positive")
	}

	return nil
}

// expandPaths resolves ~ and relative paths and fills in defaults under DataPath.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	if c.Storage.DataPath, err = expandPath(c.Storage.DataPath, filepath.Join(homeDir, "PromptShelf")); err != nil {
		return err
	}
	if c.Storage.DatabasePath, err = expandPath(c.Storage.DatabasePath, filepath.Join(c.Storage.DataPath, "prompts.db")); err != nil {
		return err
	}
	if c.Storage.UploadsPath, err = expandPath(c.Storage.UploadsPath, filepath.Join(c.Storage.DataPath, "uploads")); err != nil {
		return err
	}
	return nil
}

// expandPath returns an absolute, cleaned path, substituting defaultPath when path is empty.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the flag value, else the env value, else the default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	v := strings.ToLower(getConfigValue(flagValue, envKey, ""))
	if v == "" {
		return defaultValue
	}
	return v == "true" || v == "1" || v == "yes"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
