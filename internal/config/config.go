package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Forms     FormsConfig     `mapstructure:"forms"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Intake    IntakeConfig    `mapstructure:"intake"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// FormsConfig holds form session configuration
type FormsConfig struct {
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

// DashboardConfig holds dashboard configuration
type DashboardConfig struct {
	Currency  string `mapstructure:"currency"`
	ListLimit int    `mapstructure:"list_limit"`
	// AggregateBaseURL points the pages at a remote aggregate API.
	// Empty means the aggregates are computed in process.
	AggregateBaseURL string        `mapstructure:"aggregate_base_url"`
	ClientTimeout    time.Duration `mapstructure:"client_timeout"`
}

// IntakeConfig holds intake endpoint configuration
type IntakeConfig struct {
	AllowGuest bool   `mapstructure:"allow_guest"`
	APIToken   string `mapstructure:"api_token"`
}

// Load reads the .env file next to the process if present, then the YAML
// file at configPath, then the environment. A missing config file is not an
// error; defaults apply.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/homie.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Form session defaults
	v.SetDefault("forms.fetch_timeout", 10*time.Second)
	v.SetDefault("forms.idle_ttl", 30*time.Minute)
	v.SetDefault("forms.janitor_interval", time.Minute)

	// Dashboard defaults
	v.SetDefault("dashboard.currency", "₹")
	v.SetDefault("dashboard.list_limit", 10)
	v.SetDefault("dashboard.aggregate_base_url", "")
	v.SetDefault("dashboard.client_timeout", 15*time.Second)

	// Intake defaults
	v.SetDefault("intake.allow_guest", true)
	v.SetDefault("intake.api_token", "")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":                  "HOMIE_PORT",
		"database.path":                "HOMIE_DB_PATH",
		"logger.level":                 "HOMIE_LOG_LEVEL",
		"dashboard.aggregate_base_url": "HOMIE_AGGREGATE_URL",
		"intake.allow_guest":           "HOMIE_INTAKE_ALLOW_GUEST",
		// Credentials only come from the environment
		"intake.api_token": "HOMIE_API_TOKEN",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.MigrationsDir != "" {
		if _, err := os.Stat(c.Database.MigrationsDir); err != nil {
			return fmt.Errorf("database.migrations_dir: %w", err)
		}
	}

	if c.Forms.FetchTimeout <= 0 {
		return fmt.Errorf("forms.fetch_timeout must be positive")
	}
	if c.Forms.IdleTTL <= 0 {
		return fmt.Errorf("forms.idle_ttl must be positive")
	}
	if c.Forms.JanitorInterval <= 0 {
		return fmt.Errorf("forms.janitor_interval must be positive")
	}

	if c.Dashboard.ListLimit <= 0 {
		return fmt.Errorf("dashboard.list_limit must be positive")
	}
	if c.Dashboard.AggregateBaseURL != "" {
		u, err := url.Parse(c.Dashboard.AggregateBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("dashboard.aggregate_base_url must be an absolute URL")
		}
	}

	if !c.Intake.AllowGuest && c.Intake.APIToken == "" {
		return fmt.Errorf("intake.api_token is required when intake.allow_guest is false")
	}

	return nil
}
