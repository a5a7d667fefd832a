// Package config builds runtime configuration from environment
// variables so main stays lean. All variables use the FIELDPOS_ prefix.
package config

import (
	"os"
	"strconv"
	"time"
)

// TokenTTL is the lifetime of issued access tokens.
var TokenTTL = 8 * time.Hour

// SweepInterval controls how often the contract expiration sweep runs.
var SweepInterval = 1 * time.Hour

// ReportCacheTTL bounds how stale a cached report may be.
var ReportCacheTTL = 5 * time.Minute

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string

	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig

	JWT JWTConfig

	// AdminToken is the bootstrap token accepted on admin routes before
	// any admin staff account exists. Empty disables the bootstrap path.
	AdminToken string

	Sweep SweepConfig

	// NotifyWebhookURL receives contract lifecycle notifications.
	// Empty means notifications are logged only.
	NotifyWebhookURL string
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds Kafka connection configuration.
type KafkaConfig struct {
	Brokers string
	GroupID string
}

// JWTConfig holds token issuing configuration.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
}

// SweepConfig holds contract expiration sweep configuration.
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := getEnv("FIELDPOS_ADDR", ":8080")
	environment := getEnv("FIELDPOS_ENV", "demo")
	logLevel := getEnv("FIELDPOS_LOG_LEVEL", "info")

	if ttl := os.Getenv("FIELDPOS_TOKEN_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			TokenTTL = duration
		}
	}
	if interval := os.Getenv("FIELDPOS_SWEEP_INTERVAL"); interval != "" {
		if duration, err := time.ParseDuration(interval); err == nil {
			SweepInterval = duration
		}
	}
	if ttl := os.Getenv("FIELDPOS_REPORT_CACHE_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			ReportCacheTTL = duration
		}
	}

	jwtSigningKey := os.Getenv("FIELDPOS_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development fallback. Must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:        addr,
		Environment: environment,
		LogLevel:    logLevel,
		DatabaseURL: os.Getenv("FIELDPOS_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("FIELDPOS_REDIS_URL"),
			PoolSize:     getEnvInt("FIELDPOS_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("FIELDPOS_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("FIELDPOS_KAFKA_BROKERS"),
			GroupID: getEnv("FIELDPOS_KAFKA_GROUP_ID", "fieldpos-notifier"),
		},
		JWT: JWTConfig{
			SigningKey: jwtSigningKey,
			Issuer:     getEnv("FIELDPOS_JWT_ISSUER", "fieldpos"),
			Audience:   getEnv("FIELDPOS_JWT_AUDIENCE", "fieldpos-api"),
			TokenTTL:   TokenTTL,
		},
		AdminToken: os.Getenv("FIELDPOS_ADMIN_TOKEN"),
		Sweep: SweepConfig{
			Enabled:  os.Getenv("FIELDPOS_SWEEP_DISABLED") != "true",
			Interval: SweepInterval,
		},
		NotifyWebhookURL: os.Getenv("FIELDPOS_NOTIFY_WEBHOOK_URL"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
