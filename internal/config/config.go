// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/Sternrassler/riot-match-client/pkg/client"
	"github.com/Sternrassler/riot-match-client/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Client modes.
const (
	ModeSync       = "sync"
	ModeConcurrent = "concurrent"
)

// ErrMissingAPIKey is returned when RIOT_API_KEY is unset.
var ErrMissingAPIKey = errors.New("RIOT_API_KEY is required")

// Config holds the service configuration.
type Config struct {
	APIKey          string
	RegionalBaseURL string
	PlatformBaseURL string
	Redis           cache.Options
	Port            string
	LogLevel        logging.LogLevel
	LogPretty       bool
	ClientMode      string
	AllowedOrigins  []string
}

// Load reads .env when present, then the environment.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	return fromEnv(os.Getenv, logger)
}

func fromEnv(getenv func(string) string, logger zerolog.Logger) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	redisPort, err := strconv.Atoi(env("REDIS_PORT", "6379"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_PORT: %w", err)
	}
	redisDB, err := strconv.Atoi(env("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	pretty, err := strconv.ParseBool(env("LOG_PRETTY", "false"))
	if err != nil {
		return nil, fmt.Errorf("LOG_PRETTY: %w", err)
	}

	redis := cache.DefaultOptions()
	redis.Host = env("REDIS_HOST", redis.Host)
	redis.Port = redisPort
	redis.DB = redisDB
	redis.Password = getenv("REDIS_PASSWORD")

	cfg := &Config{
		APIKey:          env("RIOT_API_KEY", ""),
		RegionalBaseURL: env("RIOT_REGIONAL_URL", client.DefaultRegionalBaseURL),
		PlatformBaseURL: env("RIOT_PLATFORM_URL", client.DefaultPlatformBaseURL),
		Redis:           redis,
		Port:            env("PORT", "8080"),
		LogLevel:        logging.LogLevel(strings.ToLower(env("LOG_LEVEL", "info"))),
		LogPretty:       pretty,
		ClientMode:      strings.ToLower(env("CLIENT_MODE", ModeConcurrent)),
		AllowedOrigins:  splitList(env("ALLOWED_ORIGINS", "*")),
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.ClientMode != ModeSync && cfg.ClientMode != ModeConcurrent {
		return nil, fmt.Errorf("CLIENT_MODE must be %q or %q, got %q", ModeSync, ModeConcurrent, cfg.ClientMode)
	}
	if _, ok := logging.ParseLevel(string(cfg.LogLevel)); !ok {
		logger.Warn().Str("log_level", string(cfg.LogLevel)).Msg("unknown LOG_LEVEL, using info")
		cfg.LogLevel = logging.LevelInfo
	}

	logger.Info().
		Str("regional", cfg.RegionalBaseURL).
		Str("platform", cfg.PlatformBaseURL).
		Str("redis", cfg.Redis.Addr()).
		Str("port", cfg.Port).
		Str("log_level", string(cfg.LogLevel)).
		Str("client_mode", cfg.ClientMode).
		Msg("configuration loaded")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
