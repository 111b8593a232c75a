package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	CMS       CMSConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CMSConfig holds the headless content store configuration
type CMSConfig struct {
	ProjectID     string        `mapstructure:"project_id"`
	Dataset       string        `mapstructure:"dataset"`
	APIVersion    string        `mapstructure:"api_version"`
	Token         string        `mapstructure:"token"`
	BaseURL       string        `mapstructure:"base_url"`
	ImageCDN      string        `mapstructure:"image_cdn"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	RateLimit     float64       `mapstructure:"rate_limit"` // requests per second
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds the key-value store configuration
type CacheConfig struct {
	Type      string `mapstructure:"type"` // "memory" or "redis"
	RedisURL  string `mapstructure:"redis_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CatalogConfig holds catalog serving configuration
type CatalogConfig struct {
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	Highlights int           `mapstructure:"highlights"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/carhaven/")

	// Environment variable settings
	v.SetEnvPrefix("CARHAVEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// CMS defaults
	v.SetDefault("cms.project_id", "")
	v.SetDefault("cms.dataset", "production")
	v.SetDefault("cms.api_version", "2024-01-01")
	v.SetDefault("cms.token", "")
	v.SetDefault("cms.base_url", "")
	v.SetDefault("cms.image_cdn", "https://cdn.sanity.io")
	v.SetDefault("cms.webhook_secret", "")
	v.SetDefault("cms.rate_limit", 10)
	v.SetDefault("cms.timeout", "15s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "carhaven:")

	// Catalog defaults
	v.SetDefault("catalog.cache_ttl", "60s")
	v.SetDefault("catalog.highlights", 6)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 300)
	v.SetDefault("ratelimit.burst", 30)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.CMS.ProjectID == "" {
		return fmt.Errorf("CMS project id is required (set CARHAVEN_CMS_PROJECT_ID)")
	}

	if config.CMS.Dataset == "" {
		return fmt.Errorf("CMS dataset is required (set CARHAVEN_CMS_DATASET)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog cache ttl must not be negative, got: %s", config.Catalog.CacheTTL)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit per ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
