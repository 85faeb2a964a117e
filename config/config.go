package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Cart     CartConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

type DatabaseConfig struct {
	Driver     string // postgres, sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string

	// queries slower than this are logged as warnings
	SlowQueryThreshold time.Duration
}

type SessionConfig struct {
	Secret       string
	Lifetime     time.Duration
	CookieName   string
	CookieSecure bool
}

// RedisConfig is optional; an empty Addr disables session revocation.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is optional; no brokers means order events are dropped.
type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

type CartConfig struct {
	AnonymousRetention time.Duration
	CleanupSchedule    string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := getEnv("ENVIRONMENT", EnvDevelopment)

	logLevel, logFormat := "debug", "console"
	if environment == EnvProduction {
		logLevel, logFormat = "info", "json"
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: environment,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", logLevel),
			Format: getEnv("LOG_FORMAT", logFormat),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "admin"),
			Password:   getEnv("DB_PASSWORD", "1234"),
			DBName:     getEnv("DB_NAME", "storefront"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "storefront.db"),

			SlowQueryThreshold: parseDuration(getEnv("DB_SLOW_QUERY_THRESHOLD", "200ms"), 200*time.Millisecond),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "change-me-session-secret"),
			Lifetime:     parseDuration(getEnv("SESSION_LIFETIME", "1h"), time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "storefront_session"),
			CookieSecure: parseBool(getEnv("SESSION_COOKIE_SECURE", ""), environment == EnvProduction),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Kafka: KafkaConfig{
			Brokers:    parseSlice(getEnv("KAFKA_BROKERS", "")),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order-confirmed"),
		},
		Cart: CartConfig{
			AnonymousRetention: parseDuration(getEnv("CART_RETENTION", "72h"), 72*time.Hour),
			CleanupSchedule:    getEnv("CART_CLEANUP_SCHEDULE", "@hourly"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.Server.Environment == EnvProduction && c.Session.Secret == "change-me-session-secret" {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return nil
}

// IsDevelopment reports whether dev-only routes such as catalog seeding are enabled.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != EnvProduction
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Invalid boolean %s, using default %t", s, fallback)
		return fallback
	}
	return b
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
