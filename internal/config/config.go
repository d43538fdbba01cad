package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	HTTPPort string

	RateLimitEnabled  bool
	RateLimitCapacity int64
	RateLimitRefill   int64
	RateLimitInterval time.Duration
	RateLimitMaxKeys  int

	AnalyticsCacheSize int
	AnalyticsCacheTTL  time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
}

// ProcessEnvironmentVariables builds the config from the environment. A .env
// file in the working directory is loaded first if present. In all cases the
// default behavior should be for the docker compose setup.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	env := Config{
		PostgresAddress:  envOrDefault("POSTGRES_ADDRESS", "localhost"),
		PostgresPort:     envOrDefault("POSTGRES_PORT", "5433"),
		PostgresDB:       envOrDefault("POSTGRES_DB", "postgres"),
		PostgresUsername: envOrDefault("POSTGRES_USERNAME", "postgres"),
		PostgresPassword: envOrDefault("POSTGRES_PASSWORD", "testpassword"),

		HTTPPort: envOrDefault("HTTP_PORT", "9446"),

		RateLimitEnabled:  envBoolOrDefault("RATE_LIMIT_ENABLED", true),
		RateLimitCapacity: envInt64OrDefault("RATE_LIMIT_CAPACITY", 10),
		RateLimitRefill:   envInt64OrDefault("RATE_LIMIT_REFILL_TOKENS", 10),
		RateLimitInterval: envDurationOrDefault("RATE_LIMIT_REFILL_INTERVAL", time.Minute),
		RateLimitMaxKeys:  int(envInt64OrDefault("RATE_LIMIT_MAX_KEYS", 10000)),

		AnalyticsCacheSize: int(envInt64OrDefault("ANALYTICS_CACHE_SIZE", 512)),
		AnalyticsCacheTTL:  envDurationOrDefault("ANALYTICS_CACHE_TTL", 5*time.Minute),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envOrDefault("SMTP_PORT", "587"),
		SMTPFrom:     envOrDefault("SMTP_FROM", "alerts@expense-tracker.local"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}

	return &env, nil
}

func envOrDefault(name, fallback string) string {
	value := os.Getenv(name)
	if len(value) == 0 {
		return fallback
	}
	return value
}

func envInt64OrDefault(name string, fallback int64) int64 {
	value := os.Getenv(name)
	if len(value) == 0 {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBoolOrDefault(name string, fallback bool) bool {
	value := os.Getenv(name)
	if len(value) == 0 {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDurationOrDefault(name string, fallback time.Duration) time.Duration {
	value := os.Getenv(name)
	if len(value) == 0 {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
