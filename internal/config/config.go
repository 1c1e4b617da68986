package config

import "time"

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Storage     StorageConfig     `mapstructure:"storage" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Persistence PersistenceConfig `mapstructure:"persistence" validate:"required"`
	Session     SessionConfig     `mapstructure:"session" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins" validate:"dive,required"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// StorageConfig selects where progress and attempts are kept.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres redis memory"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is required when the storage driver is postgres.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// RedisConfig configures the Redis store.
// Addr is required when the storage driver is redis.
type RedisConfig struct {
	Addr      string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CatalogConfig points at a scenario catalog file. Empty means the catalog
// embedded in the binary.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// PersistenceConfig sizes the background writer that saves progress and
// attempts without blocking requests.
type PersistenceConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize           int `mapstructure:"queue_size" validate:"gte=1"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=1"`
}

// WriteTimeout returns the deadline applied to each background write.
func (c PersistenceConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// SessionConfig controls eviction of idle in-memory drill sessions.
type SessionConfig struct {
	IdleTimeoutMinutes   int `mapstructure:"idle_timeout_minutes" validate:"gte=1"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"gte=1"`
}

// IdleTimeout returns how long a session may go unused before eviction.
func (c SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}
