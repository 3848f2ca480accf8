package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/data", DatabasePath: "/data/prompts.db", UploadsPath: "/data/uploads"},
		Auth:    AuthConfig{Password: "secret", SessionDuration: time.Hour},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown environment", func(c *Config) { c.App.Environment = "test" }},
		{"uppercase environment", func(c *Config) { c.App.Environment = "DEVELOPMENT" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
		{"empty password", func(c *Config) { c.Auth.Password = "" }},
		{"zero session duration", func(c *Config) { c.Auth.SessionDuration = 0 }},
		{"empty database path", func(c *Config) { c.Storage.DatabasePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("APP_PASSWORD", "")

	cfg, err := Load([]string{"-data-path", dataDir, "-env-file", filepath.Join(dataDir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, filepath.Join(dataDir, "prompts.db"), cfg.Storage.DatabasePath)
	assert.Equal(t, filepath.Join(dataDir, "uploads"), cfg.Storage.UploadsPath)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.UsingDefaultPassword())
	assert.False(t, cfg.Auth.SecureCookies)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load([]string{"-data-path", dataDir, "-port", "7000", "-env-file", filepath.Join(dataDir, "none.env")})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	dataDir := t.TempDir()
	envFile := filepath.Join(dataDir, ".env")
	content := "APP_PASSWORD=from-file\nCORS_ORIGINS=http://a.test, http://b.test\nSESSION_DURATION=2h\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// Variables set by the environment win over the file.
	t.Setenv("SESSION_DURATION", "3h")
	// Unset the rest so the file can supply them; t.Setenv restores the originals.
	for _, key := range []string{"APP_PASSWORD", "CORS_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load([]string{"-data-path", dataDir, "-env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, 3*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "from-file", cfg.Auth.Password)
	assert.False(t, cfg.UsingDefaultPassword())
}

func TestLoad_InvalidDuration(t *testing.T) {
	dataDir := t.TempDir()
	_, err := Load([]string{"-data-path", dataDir, "-session-duration", "forever", "-env-file", filepath.Join(dataDir, "x.env")})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/shelf", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shelf"), got)

	got, err = expandPath("/var/lib/../lib/shelf", "")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/shelf", got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "relative/dir"), got)
}
