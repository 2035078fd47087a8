package config

import (
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken   string `yaml:"discord_token"`
	OwnerID        string `yaml:"owner_id"`
	MongoURL       string `yaml:"mongo_url"`
	MongoDatabase  string `yaml:"mongo_database"`
	RedisAddr      string `yaml:"redis_addr"`
	LocaleDir      string `yaml:"locale_dir"`
	DefaultLocale  string `yaml:"default_locale"`
	FallbackLocale string `yaml:"fallback_locale"`
	LocaleWatch    bool   `yaml:"locale_watch"`
	LogLevel       string `yaml:"log_level"`
	Dev            bool   `yaml:"dev"`
}

func DefaultConfig() Config {
	return Config{
		MongoURL:       "localhost:27017",
		MongoDatabase:  "babelbot",
		RedisAddr:      "localhost:6379",
		LocaleDir:      "locales",
		DefaultLocale:  "en",
		FallbackLocale: "en",
		LogLevel:       "info",
	}
}

// Load composes defaults, an optional config.yaml, and env overrides.
// A missing Discord token is a boot-time fatal.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.OwnerID = envString("OWNER_ID", cfg.OwnerID)
	cfg.MongoURL = envString("MONGO_URL", cfg.MongoURL)
	cfg.MongoDatabase = envString("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.RedisAddr = envString("REDIS_ADDR", cfg.RedisAddr)
	cfg.LocaleDir = envString("LOCALE_DIR", cfg.LocaleDir)
	cfg.DefaultLocale = envString("DEFAULT_LOCALE", cfg.DefaultLocale)
	cfg.FallbackLocale = envString("FALLBACK_LOCALE", cfg.FallbackLocale)
	cfg.LocaleWatch = envBool("LOCALE_WATCH", cfg.LocaleWatch)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Dev = envBool("DEV", cfg.Dev)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
