package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ResultsDir      string
	SitesConfigPath string

	MaxRetries         int
	RetryDelayMs       int
	HTTPTimeoutSec     int
	DefaultMaxPages    int
	DefaultRateLimitMs int
	MaxConcurrency     int

	BGNToEURRate float64

	AWSRegion string
	EmailFrom string
	EmailTo   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ResultsDir:      getEnv("RESULTS_DIR", "results"),
		SitesConfigPath: getEnv("SITES_CONFIG_PATH", "configs/sites.yaml"),

		MaxRetries:         getEnvInt("MAX_RETRIES", 3),
		RetryDelayMs:       getEnvInt("RETRY_DELAY_MS", 2000),
		HTTPTimeoutSec:     getEnvInt("HTTP_TIMEOUT_SEC", 30),
		DefaultMaxPages:    getEnvInt("DEFAULT_MAX_PAGES", 30),
		DefaultRateLimitMs: getEnvInt("DEFAULT_RATE_LIMIT_MS", 1000),
		MaxConcurrency:     getEnvInt("MAX_CONCURRENCY", 3),

		BGNToEURRate: getEnvFloat("BGN_TO_EUR_RATE", 1.9558),

		AWSRegion: getEnv("AWS_REGION", ""),
		EmailFrom: getEnv("EMAIL_FROM", ""),
		EmailTo:   getEnv("EMAIL_TO", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// EmailConfigured reports whether the notifier has everything it needs.
// When false the notifier degrades to a logged no-op.
func (c *Config) EmailConfigured() bool {
	return c.AWSRegion != "" && c.EmailFrom != "" && c.EmailTo != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
