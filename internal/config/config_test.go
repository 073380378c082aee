package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/homie.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Forms.FetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Forms.IdleTTL)
	assert.Equal(t, "₹", cfg.Dashboard.Currency)
	assert.Equal(t, 10, cfg.Dashboard.ListLimit)
	assert.True(t, cfg.Intake.AllowGuest)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
server:
  port: 9090
forms:
  fetch_timeout: 3s
dashboard:
  currency: "€"
  aggregate_base_url: http://aggregates.local
intake:
  allow_guest: false
`)
	t.Setenv("HOMIE_API_TOKEN", "s3cret")
	t.Setenv("HOMIE_DB_PATH", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Forms.FetchTimeout)
	assert.Equal(t, "€", cfg.Dashboard.Currency)
	assert.Equal(t, "http://aggregates.local", cfg.Dashboard.AggregateBaseURL)
	assert.False(t, cfg.Intake.AllowGuest)
	assert.Equal(t, "s3cret", cfg.Intake.APIToken)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HOMIE_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("HOMIE_LOG_LEVEL") })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "server: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Database:  DatabaseConfig{Path: "x.db"},
			Forms:     FormsConfig{FetchTimeout: time.Second, IdleTTL: time.Minute, JanitorInterval: time.Second},
			Dashboard: DashboardConfig{ListLimit: 10},
			Intake:    IntakeConfig{AllowGuest: true},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"migrations dir", func(c *Config) { c.Database.MigrationsDir = "/does/not/exist" }, "database.migrations_dir"},
		{"fetch timeout", func(c *Config) { c.Forms.FetchTimeout = 0 }, "forms.fetch_timeout"},
		{"idle ttl", func(c *Config) { c.Forms.IdleTTL = 0 }, "forms.idle_ttl"},
		{"janitor", func(c *Config) { c.Forms.JanitorInterval = 0 }, "forms.janitor_interval"},
		{"list limit", func(c *Config) { c.Dashboard.ListLimit = 0 }, "dashboard.list_limit"},
		{"aggregate url", func(c *Config) { c.Dashboard.AggregateBaseURL = "not a url" }, "dashboard.aggregate_base_url"},
		{"token", func(c *Config) { c.Intake.AllowGuest = false }, "intake.api_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
