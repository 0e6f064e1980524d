package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string   // Empty means the in-memory store is used
	RedisURL           string   // Empty disables the task list cache
	JWTSecret          string   // Secret key for JWT token signing
	JWTTTL             int      // JWT token expiration time in hours
	BcryptCost         int      // bcrypt work factor
	CORSAllowedOrigins []string // "*" allows every origin
	RateLimitRPS       float64  // Rate limit for general API endpoints (requests per second)
	RateLimitBurst     int      // Burst size for rate limiting
	RateLimitAuthRPS   float64  // Rate limit for auth endpoints (stricter)
	RateLimitAuthBurst int      // Burst size for auth endpoints
	TaskCacheTTL       int      // Seconds a cached task list stays valid
	TrustedProxies     []string // Proxies whose X-Forwarded-For is believed; empty trusts none
	LogLevel           string
	LogFormat          string // "json" or "text"
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables or defaults", "error", err)
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getEnvInt("JWT_TTL_HOURS", 8),
		BcryptCost:         getEnvInt("BCRYPT_COST", 10),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:   getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst: getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		TaskCacheTTL:       getEnvInt("TASK_CACHE_TTL_SECONDS", 300),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES", nil),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

// Validate reports configuration that would leave the server unable to issue
// or verify tokens.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTL) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.TaskCacheTTL) * time.Second
}

func (c *Config) Addr() string {
	return ":" + c.Port
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
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
