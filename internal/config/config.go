package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PlaceholderSupabaseURL is the sample URL shipped in example env files.
// It counts as "not configured".
const PlaceholderSupabaseURL = "https://your-project.supabase.co"

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	SupabaseURL     string `mapstructure:"SUPABASE_URL"`
	SupabaseAnonKey string `mapstructure:"SUPABASE_ANON_KEY"`

	BadgerDBPath string `mapstructure:"BADGERDB_PATH"`

	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	ScraperEnabled   bool   `mapstructure:"SCRAPER_ENABLED"`
}

// SupabaseConfigured reports whether a real backend should be used.
func (c Config) SupabaseConfigured() bool {
	return c.SupabaseURL != "" &&
		strings.TrimRight(c.SupabaseURL, "/") != PlaceholderSupabaseURL &&
		c.SupabaseAnonKey != ""
}

var defaults = map[string]any{
	"BADGERDB_PATH":   "./badger_data",
	"HTTP_ADDR":       ":8080",
	"LOG_LEVEL":       "info",
	"REDIS_DB":        0,
	"SCRAPER_ENABLED": false,
}

// envAliases lets the Vite-style names of the original web client work too.
var envAliases = map[string][]string{
	"SUPABASE_URL":      {"SUPABASE_URL", "VITE_SUPABASE_URL"},
	"SUPABASE_ANON_KEY": {"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"},
}

// LoadConfig reads configuration from a .env file, configs/config.yaml under
// path, and the environment. Environment variables win.
func LoadConfig(path string) (Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	// Unmarshal only sees keys viper knows about.
	for _, key := range []string{"PUBLIC_BASE_URL", "SESSION_SECRET", "LOG_FILE", "REDIS_ADDR", "REDIS_PASSWORD", "TELEGRAM_BOT_TOKEN"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return cfg, nil
}
