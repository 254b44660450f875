package config

import (
	"fmt"
	"time"
)

// Config holds runtime configuration for the DongPay deposit bot.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	Gateway   GatewayConfig   `mapstructure:"gateway" validate:"required"`
	Deposit   DepositConfig   `mapstructure:"deposit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	I18N      I18NConfig      `mapstructure:"i18n"`
}

// BotConfig configures the Telegram transport. Listen is the webhook
// listener's own address; it must not collide with ServerConfig.Port, which
// the health/metrics server binds.
type BotConfig struct {
	Token      string        `mapstructure:"token" validate:"required"`
	Mode       string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	WebhookURL string        `mapstructure:"webhook_url" validate:"required_if=Mode webhook,omitempty,url"`
	Listen     string        `mapstructure:"listen" validate:"required_if=Mode webhook"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the auxiliary HTTP server (health, metrics).
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GatewayConfig configures the TinPesa payment gateway client.
type GatewayConfig struct {
	URL           string        `mapstructure:"url" validate:"required,url"`
	APIKey        string        `mapstructure:"api_key" validate:"required"`
	Username      string        `mapstructure:"username" validate:"required"`
	AccountNumber string        `mapstructure:"account_number" validate:"required"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// DepositConfig carries the deposit business rules.
type DepositConfig struct {
	MinAmount   int           `mapstructure:"min_amount" validate:"gt=0"`
	PhoneLength int           `mapstructure:"phone_length" validate:"gt=0"`
	PhonePrefix string        `mapstructure:"phone_prefix" validate:"required"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
}

// RedisConfig configures the optional Redis backend for state, locks, and caching.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// DatabaseConfig configures the optional PostgreSQL deposit ledger.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_if=Enabled true"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LoggerConfig configures structured logging output.
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// RateLimitConfig configures per-user update throttling.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PerUser   int           `mapstructure:"per_user" validate:"required_if=Enabled true,omitempty,gt=0"`
	Window    time.Duration `mapstructure:"window"`
	Whitelist []int64       `mapstructure:"whitelist"`
}

// I18NConfig selects the prompt catalog directory and default language.
type I18NConfig struct {
	Dir         string `mapstructure:"dir"`
	DefaultLang string `mapstructure:"default_lang"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
