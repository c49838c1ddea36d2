// Package config loads application configuration from an optional YAML file
// and PROPFOLIO_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Valuation ValuationConfig `mapstructure:"valuation"`
	Mortgage  MortgageConfig  `mapstructure:"mortgage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds cache configuration. An empty URL disables the cache.
type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ValuationConfig holds valuation engine configuration.
type ValuationConfig struct {
	// ComparableLimit caps how many comparables a source fetch returns.
	ComparableLimit int `mapstructure:"comparable_limit"`
	// UseSyntheticComparables selects the built-in generator instead of
	// the store-backed comparable source.
	UseSyntheticComparables bool `mapstructure:"use_synthetic_comparables"`
}

// MortgageConfig holds mortgage engine configuration.
type MortgageConfig struct {
	DefaultCountry  string `mapstructure:"default_country"`
	DefaultLoanType string `mapstructure:"default_loan_type"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file plus environment
// variables. Pass an empty path to use defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PROPFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must not be empty")
	}
	if c.Valuation.ComparableLimit <= 0 {
		return fmt.Errorf("valuation.comparable_limit must be positive")
	}
	if c.Redis.URL != "" && c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("redis.cache_ttl must be positive when redis is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.cache_ttl", 30*time.Second)

	v.SetDefault("valuation.comparable_limit", 10)
	v.SetDefault("valuation.use_synthetic_comparables", false)

	v.SetDefault("mortgage.default_country", "UAE")
	v.SetDefault("mortgage.default_loan_type", "conventional_30y")

	v.SetDefault("logging.level", "info")
}
