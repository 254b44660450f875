// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from YAML files and environment variables, validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, v, nil
}

// Watch reloads the configuration whenever the backing file changes and
// passes the re-validated result to onChange. Invalid edits are logged and skipped.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || onChange == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.Error("config reload failed", slog.String("file", e.Name), slog.Any("error", err))
			return
		}

		validate := validator.New(validator.WithRequiredStructEnabled())
		if err := validate.Struct(cfg); err != nil {
			log.Error("reloaded config is invalid, keeping previous", slog.String("file", e.Name), slog.Any("error", err))
			return
		}

		log.Info("configuration reloaded", slog.String("file", e.Name))
		onChange(&cfg)
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	// Empty defaults register the keys with viper so environment variables
	// (BOT_TOKEN, GATEWAY_API_KEY, ...) can override them during Unmarshal.
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.webhook_url", "")
	v.SetDefault("bot.listen", ":8443")
	v.SetDefault("bot.timeout", 10*time.Second)

	v.SetDefault("gateway.api_key", "")
	v.SetDefault("sentry.dsn", "")

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("gateway.timeout", 15*time.Second)

	v.SetDefault("deposit.min_amount", 2000)
	v.SetDefault("deposit.phone_length", 10)
	v.SetDefault("deposit.phone_prefix", "07")
	v.SetDefault("deposit.session_ttl", time.Hour)

	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 14)

	v.SetDefault("rate_limit.per_user", 20)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("i18n.dir", "./configs/i18n")
	v.SetDefault("i18n.default_lang", "en")
}
