package config

import (
	"net"
	"strconv"
	"time"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported response cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Cache        CacheConfig     `mapstructure:"cache"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Security     SecurityConfig  `mapstructure:"security"`
	Logging      LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains fortune store settings.
// Path is used by the sqlite driver, URL by the postgres driver.
type DatabaseConfig struct {
	Driver                string        `mapstructure:"driver"`
	Path                  string        `mapstructure:"path"`
	URL                   string        `mapstructure:"url"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	AutoMigrate           bool          `mapstructure:"auto_migrate"`
	Seed                  bool          `mapstructure:"seed"`
	Verbose               bool          `mapstructure:"verbose"`
}

// CacheConfig contains response cache settings
type CacheConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Backend string            `mapstructure:"backend"`
	TTL     time.Duration     `mapstructure:"ttl"`
	Memory  MemoryCacheConfig `mapstructure:"memory"`
	Redis   RedisCacheConfig  `mapstructure:"redis"`
}

// MemoryCacheConfig contains in-memory cache settings
type MemoryCacheConfig struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

// RedisCacheConfig contains redis cache settings
type RedisCacheConfig struct {
	URL        string `mapstructure:"url"`
	ClientName string `mapstructure:"client_name"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool  `mapstructure:"enable_cors"`
	EnableRequestID bool  `mapstructure:"enable_request_id"`
	MaxRequestBytes int64 `mapstructure:"max_request_bytes"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
