package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	DatabaseURL            string // empty keeps links in memory
	RedisURL               string // empty disables the cache
	HomeURL                string // target of GET /
	BaseURL                string // public prefix of short URLs and QR codes
	AdminPassword          string
	SecretKey              string        // Secret key for JWT token signing
	SessionTTL             time.Duration // JWT token expiration
	CreatedBy              string
	SlugLength             int
	SlugAttempts           int
	TitleFetchTimeout      time.Duration
	ListLimit              int
	DBConnectTimeout       time.Duration
	RateLimitRPS           float64 // Rate limit for authenticated endpoints (requests per second)
	RateLimitBurst         int     // Burst size for rate limiting
	RateLimitAuthRPS       float64 // Rate limit for login/logout (stricter)
	RateLimitAuthBurst     int
	RateLimitRedirectRPS   float64 // Rate limit for public redirects (lenient)
	RateLimitRedirectBurst int
	LogLevel               slog.Level
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables or defaults", "error", err)
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		HomeURL:                getEnv("HOME_URL", "/health"),
		BaseURL:                strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
		SecretKey:              getEnv("SECRET_KEY", ""),
		SessionTTL:             time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		CreatedBy:              getEnv("CREATED_BY", "snlght"),
		SlugLength:             getEnvInt("SLUG_LENGTH", 5),
		SlugAttempts:           getEnvInt("SLUG_ATTEMPTS", 100),
		TitleFetchTimeout:      getEnvDuration("TITLE_FETCH_TIMEOUT", 5*time.Second),
		ListLimit:              getEnvInt("LIST_LIMIT", 20),
		DBConnectTimeout:       getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		RateLimitRPS:           getEnvFloat("RATE_LIMIT_RPS", 10),           // 10 requests per second
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 20),           // Allow bursts of 20
		RateLimitAuthRPS:       getEnvFloat("RATE_LIMIT_AUTH_RPS", 1),       // brute-force guard on /login
		RateLimitAuthBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 5),
		RateLimitRedirectRPS:   getEnvFloat("RATE_LIMIT_REDIRECT_RPS", 30),
		RateLimitRedirectBurst: getEnvInt("RATE_LIMIT_REDIRECT_BURST", 60),
		LogLevel:               getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// SecureCookies reports whether the service is published over HTTPS
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		slog.Warn("ignoring invalid integer", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		slog.Warn("ignoring invalid number", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("ignoring invalid duration", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
		slog.Warn("ignoring invalid log level", "key", key, "value", value)
	}
	return defaultValue
}
