package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Market   MarketConfig   `mapstructure:"market"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Mode string `mapstructure:"mode"`
}

// MarketConfig holds marketplace API configuration
type MarketConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	AssetBase            string   `mapstructure:"asset_base"`
	Platform             string   `mapstructure:"platform"`
	Language             string   `mapstructure:"language"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	CooldownSeconds      int      `mapstructure:"cooldown_seconds"`
	Relays               []string `mapstructure:"relays"`
	ValidateRelays       bool     `mapstructure:"validate_relays"`
}

// CatalogConfig holds the static item catalog location
type CatalogConfig struct {
	Source string `mapstructure:"source"`
	Locale string `mapstructure:"locale"`
}

// SessionConfig holds input session tuning
type SessionConfig struct {
	DebounceMillis int `mapstructure:"debounce_ms"`
	RecentLimit    int `mapstructure:"recent_limit"`
	OfferLimit     int `mapstructure:"offer_limit"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c SessionConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

func (c MarketConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c MarketConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// Load loads configuration from config.yaml in the working directory with environment variable overrides
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile loads configuration from an explicit YAML file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url must not be empty")
	}
	if c.Session.RecentLimit <= 0 {
		return fmt.Errorf("session.recent_limit must be positive, got %d", c.Session.RecentLimit)
	}
	if c.Session.OfferLimit <= 0 {
		return fmt.Errorf("session.offer_limit must be positive, got %d", c.Session.OfferLimit)
	}
	if c.Session.DebounceMillis < 0 {
		return fmt.Errorf("session.debounce_ms must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.mode", "release")

	v.SetDefault("market.base_url", "https://api.warframe.market/v1")
	v.SetDefault("market.asset_base", "https://warframe.market/static/assets/")
	v.SetDefault("market.platform", "pc")
	v.SetDefault("market.language", "en")
	v.SetDefault("market.timeout", 30)
	v.SetDefault("market.max_retries", 0)
	v.SetDefault("market.max_requests_per_second", 3)
	v.SetDefault("market.cooldown_seconds", 60)
	v.SetDefault("market.relays", []string{})
	v.SetDefault("market.validate_relays", false)

	v.SetDefault("catalog.source", "./public/items.json")
	v.SetDefault("catalog.locale", "en")

	v.SetDefault("session.debounce_ms", 300)
	v.SetDefault("session.recent_limit", 5)
	v.SetDefault("session.offer_limit", 3)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "wfmarket")
	v.SetDefault("database.user", "wfmarket_user")
	v.SetDefault("database.password", "wfmarket_pass")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key_prefix", "wfmarket:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
