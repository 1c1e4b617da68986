package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DRILL_SERVER_PORT.
const EnvPrefix = "DRILL"

// Load reads configuration from ./config.yaml (if present) and DRILL_*
// environment variables. See LoadFile.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from environment variables and optionally a
// config file. A .env file in the working directory is loaded into the
// environment first without overriding variables that are already set.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func LoadFile(path string) (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the settings each storage driver needs.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("config validation failed: database.url is required for the %s driver", DriverPostgres)
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config validation failed: redis.addr is required for the %s driver", DriverRedis)
		}
	}
	return nil
}

// setDefaults registers every key so that AutomaticEnv can override it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("storage.driver", DriverPostgres)

	v.SetDefault("database.url", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "drill:")

	v.SetDefault("catalog.path", "")

	v.SetDefault("persistence.worker_count", 2)
	v.SetDefault("persistence.queue_size", 256)
	v.SetDefault("persistence.write_timeout_seconds", 5)

	v.SetDefault("session.idle_timeout_minutes", 60)
	v.SetDefault("session.sweep_interval_minutes", 5)
}
