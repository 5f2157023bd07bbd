package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PAPERREEL_SERVER_PORT.
const EnvPrefix = "PAPERREEL"

// DefaultConfigFile is read when present.
const DefaultConfigFile = "./config/settings.yaml"

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = Load(DefaultConfigFile)
	})
	return initErr
}

// Load sets defaults, reads the config file at path when it exists and
// applies environment overrides. It may be called repeatedly after
// viper.Reset().
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		configPath := filepath.Clean(path)
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			// A missing file means defaults and env vars only.
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("error reading config file %s: %w", configPath, err)
			}
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Get returns a config value by key using Viper directly
func Get(key string) any {
	return viper.Get(key)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

var (
	supportedDrivers   = []string{"sqlite", "postgres"}
	supportedLogLevels = []string{"debug", "info", "warn", "error"}
	supportedLogFormat = []string{"console", "json"}
)

// validate validates the configuration using Viper values
func validate() error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Auto-correct intervals that would stall the sweepers
	if viper.GetDuration("sessions.cleanup_interval") <= 0 {
		viper.Set("sessions.cleanup_interval", time.Minute)
	}
	if viper.GetDuration("cache.cleanup_interval") <= 0 {
		viper.Set("cache.cleanup_interval", 5*time.Minute)
	}
	return nil
}

// Validate validates a Config struct
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	driver := c.Database.Driver
	if driver == "" {
		driver = "sqlite"
	}
	if !slices.Contains(supportedDrivers, driver) {
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}

	if c.Logging.Level != "" && !slices.Contains(supportedLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	if c.Logging.Format != "" && !slices.Contains(supportedLogFormat, c.Logging.Format) {
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}

	if c.Sessions.IdleTimeout < 0 {
		return fmt.Errorf("invalid sessions.idle_timeout: %s", c.Sessions.IdleTimeout)
	}
	return nil
}

// IsProduction reports whether the environment names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 10*1024*1024)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/paperreel.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.log_queries", false)

	// Storage defaults
	viper.SetDefault("storage.media_dir", "./data/media")

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size_mb", 64)
	viper.SetDefault("cache.default_ttl", 10*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 5*time.Minute)

	// Session defaults
	viper.SetDefault("sessions.idle_timeout", 30*time.Minute)
	viper.SetDefault("sessions.cleanup_interval", time.Minute)
	viper.SetDefault("sessions.max_sessions", 256)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"save":    30,
		"default": 600,
	})

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Range"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}
