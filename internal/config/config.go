package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Remote    RemoteConfig    `yaml:"remote"`
	Receipt   ReceiptConfig   `yaml:"receipt"`
	Rental    RentalConfig    `yaml:"rental"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig contains local snapshot persistence settings
type StorageConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// RemoteConfig contains the optional remote Postgres backend used for
// the startup-only sync. All fields empty means unconfigured: the sync
// is skipped and local state is authoritative.
type RemoteConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// ReceiptConfig contains the optional receipt printer settings. An
// empty spool dir means no printer.
type ReceiptConfig struct {
	SpoolDir string `yaml:"spool_dir"`
}

// RentalConfig contains rental policy settings
type RentalConfig struct {
	OverdueGraceDays int `yaml:"overdue_grace_days"`
}

// SchedulerConfig contains cron specs (with seconds precision)
type SchedulerConfig struct {
	MarkOverdueRentals string `yaml:"mark_overdue_rentals"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("SNAPSHOT_PATH"); val != "" {
		c.Storage.SnapshotPath = val
	}

	// Remote backend
	if val := os.Getenv("REMOTE_DB_HOST"); val != "" {
		c.Remote.Host = val
	}
	if val := os.Getenv("REMOTE_DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Remote.Port)
	}
	if val := os.Getenv("REMOTE_DB_USER"); val != "" {
		c.Remote.User = val
	}
	if val := os.Getenv("REMOTE_DB_PASSWORD"); val != "" {
		c.Remote.Password = val
	}
	if val := os.Getenv("REMOTE_DB_NAME"); val != "" {
		c.Remote.Database = val
	}
	if val := os.Getenv("REMOTE_DB_SSL_MODE"); val != "" {
		c.Remote.SSLMode = val
	}

	// Receipt
	if val := os.Getenv("RECEIPT_SPOOL_DIR"); val != "" {
		c.Receipt.SpoolDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks if the configuration is valid and applies defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.SnapshotPath == "" {
		return fmt.Errorf("snapshot path is required")
	}

	// The remote backend is optional, but a partial configuration is a
	// mistake worth failing on.
	if c.RemoteConfigured() {
		if c.Remote.User == "" {
			return fmt.Errorf("remote database user is required")
		}
		if c.Remote.Database == "" {
			return fmt.Errorf("remote database name is required")
		}
		if c.Remote.Port <= 0 || c.Remote.Port > 65535 {
			return fmt.Errorf("invalid remote database port: %d", c.Remote.Port)
		}
		if c.Remote.SSLMode == "" {
			c.Remote.SSLMode = "disable"
		}
	}

	if c.Rental.OverdueGraceDays <= 0 {
		c.Rental.OverdueGraceDays = 30
	}

	if c.Scheduler.MarkOverdueRentals == "" {
		c.Scheduler.MarkOverdueRentals = "0 0 2 * * *" // 2 AM UTC
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	return nil
}

// RemoteConfigured reports whether the remote backend sync should run
func (c *Config) RemoteConfigured() bool {
	return c.Remote.Host != ""
}

// GetRemoteConnectionString returns a PostgreSQL connection string
func (c *Config) GetRemoteConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Remote.User,
		c.Remote.Password,
		c.Remote.Host,
		c.Remote.Port,
		c.Remote.Database,
		c.Remote.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
