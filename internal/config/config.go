// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db" // Import db package for its Config struct

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string          `toml:"server_port"`
	DB         db.Config       `toml:"database"`
	Log        util.LogOptions `toml:"logging"`
	Ledger     LedgerConfig    `toml:"ledger"`
	Scheduler  SchedulerConfig `toml:"scheduler"`
}

// LedgerConfig tunes the balance ledger.
type LedgerConfig struct {
	LockTimeout string `toml:"lock_timeout"` // e.g. "5s"
}

// SchedulerConfig tunes the lifecycle sweep.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Interval string `toml:"interval"` // e.g. "1h"
}

// GetLockTimeout parses LockTimeout. Zero means the ledger default.
func (c LedgerConfig) GetLockTimeout() time.Duration {
	d, err := time.ParseDuration(c.LockTimeout)
	if err != nil {
		return 0
	}
	return d
}

// GetInterval parses Interval. Zero means the scheduler default.
func (c SchedulerConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0
	}
	return d
}

// NewDefaultConfig returns the configuration used for local development.
func NewDefaultConfig() *AppConfig {
	return &AppConfig{
		ServerPort: "8080",
		DB: db.Config{
			Driver:   db.DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "password",
			DBName:   "ledgerdb",
			SSLMode:  "disable",
			Path:     "data/ledger.db",
		},
		Log:       util.LogOptions{Level: "info", Format: "json"},
		Ledger:    LedgerConfig{LockTimeout: "5s"},
		Scheduler: SchedulerConfig{Enabled: true, Interval: "1h"},
	}
}

// LoadConfig loads configuration from a .env file, the TOML file named by
// CONFIG_FILE and environment variables, in increasing precedence.
func LoadConfig() (*AppConfig, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load builds the configuration from defaults, the optional TOML file at path
// and environment overrides.
func Load(path string) (*AppConfig, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to cfg.
func applyEnvOverrides(cfg *AppConfig) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("SERVER_PORT", &cfg.ServerPort)
	setString("DB_DRIVER", &cfg.DB.Driver)
	setString("DB_HOST", &cfg.DB.Host)
	setString("DB_USER", &cfg.DB.User)
	setString("DB_PASSWORD", &cfg.DB.Password)
	setString("DB_NAME", &cfg.DB.DBName)
	setString("DB_SSLMODE", &cfg.DB.SSLMode)
	setString("DB_PATH", &cfg.DB.Path)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)
	setString("LEDGER_LOCK_TIMEOUT", &cfg.Ledger.LockTimeout)
	setString("SWEEP_INTERVAL", &cfg.Scheduler.Interval)

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		cfg.DB.Port = port
	}
	if v := os.Getenv("SWEEP_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SWEEP_ENABLED: %w", err)
		}
		cfg.Scheduler.Enabled = enabled
	}
	return nil
}

func (c *AppConfig) validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.Driver == db.DriverSQLite && c.DB.Path == "" {
		return errors.New("DB_PATH is required for the sqlite driver")
	}
	if _, err := time.ParseDuration(c.Ledger.LockTimeout); err != nil {
		return fmt.Errorf("invalid ledger lock timeout %q: %w", c.Ledger.LockTimeout, err)
	}
	if _, err := time.ParseDuration(c.Scheduler.Interval); err != nil {
		return fmt.Errorf("invalid sweep interval %q: %w", c.Scheduler.Interval, err)
	}
	return nil
}
