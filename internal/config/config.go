package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	CRAPIKey      string
	APIBaseURL    string
	RedisAddr     string
	RedisPassword string
	ServerPort    string
	LogLevel      string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		CRAPIKey:      getEnv("CR_API_KEY", ""),
		APIBaseURL:    getEnv("CR_API_BASE", "https://proxy.royaleapi.dev/v1"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.CRAPIKey == "" {
		return nil, fmt.Errorf("CR_API_KEY is required")
	}

	logger.Info().
		Str("api_base", cfg.APIBaseURL).
		Str("redis_addr", cfg.RedisAddr).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
