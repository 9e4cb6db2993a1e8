// Package config loads service settings from the environment and an optional
// .env file through Viper, and validates them before startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	redisClient "github.com/eaglebank/banque/internal/redis"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config stores all configuration for the application.
type Config struct {
	Port             string        `mapstructure:"PORT" validate:"required,numeric"`
	StoreDriver      string        `mapstructure:"STORE_DRIVER" validate:"required,oneof=memory postgres mysql"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL" validate:"required_if=StoreDriver postgres"`
	MySQLDSN         string        `mapstructure:"MYSQL_DSN" validate:"required_if=StoreDriver mysql"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB" validate:"gte=0"`
	RedisPoolSize    int           `mapstructure:"REDIS_POOL_SIZE" validate:"gte=0"`
	RedisDialTimeout time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT" validate:"gte=0"`
	RedisIOTimeout   time.Duration `mapstructure:"REDIS_IO_TIMEOUT" validate:"gte=0"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
	EventStreamMax   int64         `mapstructure:"EVENT_STREAM_MAXLEN" validate:"gte=0"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	StrictNotFound   bool          `mapstructure:"STRICT_NOT_FOUND"`
	LogLevel         string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat        string        `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`
	GinMode          string        `mapstructure:"GIN_MODE" validate:"oneof=debug release test"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"STORE_DRIVER":        DriverMemory,
	"DATABASE_URL":        "",
	"MYSQL_DSN":           "",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"REDIS_POOL_SIZE":     10,
	"REDIS_DIAL_TIMEOUT":  "5s",
	"REDIS_IO_TIMEOUT":    "3s",
	"CACHE_TTL":           "5m",
	"EVENT_STREAM_MAXLEN": 10000,
	"JWT_SECRET":          "",
	"STRICT_NOT_FOUND":    false,
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"GIN_MODE":            "release",
	"SHUTDOWN_TIMEOUT":    "10s",
}

var validate = validator.New()

// Load reads configuration from dir/.env (if present) and the environment.
// Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Every key needs a default so AutomaticEnv values reach Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

// CacheEnabled reports whether a Redis read cache and event stream are wired.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// RedisOptions maps the REDIS_* settings onto client options.
func (c *Config) RedisOptions() redisClient.Options {
	return redisClient.Options{
		Addr:        c.RedisAddr,
		Password:    c.RedisPassword,
		DB:          c.RedisDB,
		PoolSize:    c.RedisPoolSize,
		DialTimeout: c.RedisDialTimeout,
		IOTimeout:   c.RedisIOTimeout,
	}
}

// AuthEnabled reports whether bearer authentication guards the API.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }
