package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Issuer claim for session tokens (default: shopd)
	JWTSecret string // Required: HS256 signing secret, at least 32 bytes

	DatabaseFile string        // Path to SQLite database file (default: ./shop.db)
	RedisAddr    string        // Optional: Redis address; empty uses the in-process cache
	PepperFile   string        // Path to pepper file for password hashing (default: ./pepper)
	OTPTTL       time.Duration // One-time code lifetime (default: 5m)
	SessionTTL   time.Duration // Session lifetime (default: 1h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("SHOP_ISSUER", "shopd"),
		JWTSecret:           os.Getenv("SHOP_JWT_SECRET"),
		DatabaseFile:        getEnvOrDefault("SHOP_DATABASE_FILE", "shop.db"),
		RedisAddr:           os.Getenv("SHOP_REDIS_ADDR"),
		PepperFile:          getEnvOrDefault("SHOP_PEPPER_FILE", "pepper"),
		OTPTTL:              getEnvDurationOrDefault("SHOP_OTP_TTL", 5*time.Minute),
		SessionTTL:          getEnvDurationOrDefault("SHOP_SESSION_TTL", time.Hour),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
