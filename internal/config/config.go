// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the pay2u API.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	Environment string `mapstructure:"APP_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWKSURL   string `mapstructure:"JWKS_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MinioEndpoint   string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey  string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey  string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL     bool   `mapstructure:"MINIO_USE_SSL"`
	MinioLogoBucket string `mapstructure:"MINIO_LOGO_BUCKET"`

	BillingYearDays           int   `mapstructure:"BILLING_YEAR_DAYS"`
	BillingStrictDuration     bool  `mapstructure:"BILLING_STRICT_DURATION"`
	BillingDefaultCardBalance int64 `mapstructure:"BILLING_DEFAULT_CARD_BALANCE"`

	SummaryCacheTTL    time.Duration `mapstructure:"SUMMARY_CACHE_TTL"`
	RenewalJobInterval time.Duration `mapstructure:"RENEWAL_JOB_INTERVAL"`
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

var keys = []string{
	"SERVER_PORT", "APP_ENV", "DATABASE_URL", "AUTO_MIGRATE",
	"JWT_SECRET", "JWKS_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL", "MINIO_LOGO_BUCKET",
	"BILLING_YEAR_DAYS", "BILLING_STRICT_DURATION", "BILLING_DEFAULT_CARD_BALANCE",
	"SUMMARY_CACHE_TTL", "RENEWAL_JOB_INTERVAL", "RATE_LIMIT_PER_MINUTE",
}

// LoadConfig reads configuration from environment variables. Values in a .env file
// in the working directory are loaded first and never override the real environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_LOGO_BUCKET", "service-logos")
	v.SetDefault("BILLING_YEAR_DAYS", 365)
	v.SetDefault("BILLING_STRICT_DURATION", true)
	v.SetDefault("BILLING_DEFAULT_CARD_BALANCE", 5000)
	v.SetDefault("SUMMARY_CACHE_TTL", "5m")
	v.SetDefault("RENEWAL_JOB_INTERVAL", "1h")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.BillingYearDays != 360 && c.BillingYearDays != 365 {
		return fmt.Errorf("BILLING_YEAR_DAYS must be 360 or 365, got %d", c.BillingYearDays)
	}
	if c.BillingDefaultCardBalance < 0 {
		return errors.New("BILLING_DEFAULT_CARD_BALANCE cannot be negative")
	}
	if c.IsProduction() && c.JWTSecret == "" && c.JWKSURL == "" {
		return errors.New("JWT_SECRET or JWKS_URL is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MinioEnabled reports whether logo storage is configured
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}
