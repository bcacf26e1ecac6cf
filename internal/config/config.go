package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv               string
	HTTPPort             int
	RedisAddr            string
	NarrativeCacheTTL    time.Duration
	GeminiAPIKey         string
	GeminiModel          string
	NarrativeTimeout     time.Duration
	NarrativeConcurrency int
	MaxUploadBytes       int64
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		HTTPPort:             getEnvInt("HTTP_PORT", 8080),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		NarrativeCacheTTL:    getEnvDuration("NARRATIVE_CACHE_TTL", 10*time.Minute),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		NarrativeTimeout:     getEnvDuration("NARRATIVE_TIMEOUT", 30*time.Second),
		NarrativeConcurrency: getEnvInt("NARRATIVE_CONCURRENCY", 4),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 32<<20)),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return val
}
