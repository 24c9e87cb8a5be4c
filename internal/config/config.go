package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	HTTPAddr string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// LocalCachePath is the sqlite file backing the durable local cache.
	LocalCachePath string

	// NodeID feeds the snowflake generator; each device gets its own.
	NodeID int64

	AIBaseURL string
	AIAPIKey  string
	AIModel   string

	ResyncInterval time.Duration
	ProbeTimeout   time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "prodtrack"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "prodtrack"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		LocalCachePath: getenv("LOCAL_CACHE_PATH", "prodtrack.db"),

		NodeID: getenvInt64("NODE_ID", 1),

		AIBaseURL: getenv("AI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AIAPIKey:  strings.TrimSpace(getenv("AI_API_KEY", "")),
		AIModel:   getenv("AI_MODEL", "gemini-2.0-flash"),

		ResyncInterval: getenvDuration("RESYNC_INTERVAL", 5*time.Minute),
		ProbeTimeout:   getenvDuration("PROBE_TIMEOUT", 2*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
