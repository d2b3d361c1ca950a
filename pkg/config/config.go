package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigPath is where Init looks for a settings file
const DefaultConfigPath = "./config/settings.yaml"

// EnvPrefix prefixes every environment override, e.g. FORTUNE_SERVER_PORT
const EnvPrefix = "FORTUNE"

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load(DefaultConfigPath, true)
	})
	return initErr
}

// Load reads defaults, the settings file at path and env overrides into the
// global viper instance, then validates the result. The file must exist.
func Load(path string) error {
	return load(path, false)
}

// load is Load with an optional settings file. Init uses it for
// DefaultConfigPath so a bare checkout runs on defaults and env vars.
func load(path string, optional bool) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPath := filepath.Clean(path)
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
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

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	switch driver := viper.GetString("database.driver"); driver {
	case DriverSQLite:
		if viper.GetString("database.path") == "" {
			return fmt.Errorf("database.path is required for the %s driver", driver)
		}
	case DriverPostgres:
		if viper.GetString("database.url") == "" {
			return fmt.Errorf("database.url is required for the %s driver", driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", driver)
	}

	switch backend := viper.GetString("cache.backend"); backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unsupported cache backend: %q", backend)
	}

	// Auto-correct a non-positive rate
	if viper.GetInt("rate_limiting.requests_per_second") <= 0 {
		viper.Set("rate_limiting.requests_per_second", 10)
	}
	if viper.GetInt("rate_limiting.burst") <= 0 {
		viper.Set("rate_limiting.burst", 20)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the %s driver", c.Database.Driver)
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.RateLimiting.RequestsPerSecond <= 0 {
		c.RateLimiting.RequestsPerSecond = 10
	}
	if c.RateLimiting.Burst <= 0 {
		c.RateLimiting.Burst = 20
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.idle_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.driver", DriverSQLite)
	viper.SetDefault("database.path", "./data/fortunes.db")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("database.seed", true)
	viper.SetDefault("database.verbose", false)

	// Cache defaults
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.backend", CacheBackendMemory)
	viper.SetDefault("cache.ttl", 1*time.Minute)
	viper.SetDefault("cache.memory.max_size_mb", 16)
	viper.SetDefault("cache.redis.url", "redis://localhost:6379/0")
	viper.SetDefault("cache.redis.client_name", "fortune-api")
	viper.SetDefault("cache.redis.key_prefix", "fortune-api:")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_second", 10)
	viper.SetDefault("rate_limiting.burst", 20)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.enable_request_id", true)
	viper.SetDefault("security.max_request_bytes", 1048576)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
