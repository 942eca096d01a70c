// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StateStoreBackend selects where wizard state is persisted.
type StateStoreBackend string

const (
	StateStoreMemory   StateStoreBackend = "memory"
	StateStoreRedis    StateStoreBackend = "redis"
	StateStorePostgres StateStoreBackend = "postgres"
)

// Server captures everything the engage server needs at startup.
type Server struct {
	Addr            string
	JWTSigningKey   string
	JWTIssuer       string
	TokenTTL        time.Duration
	StateStore      StateStoreBackend
	Redis           RedisConfig
	PostgresDSN     string
	KafkaBrokers    []string
	AuditTopic      string
	AuditBufferSize int
	ShutdownTimeout time.Duration
}

// RedisConfig holds connection tuning for the Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("ENGAGE_ADDR", ":8080"),
		JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:       envOr("JWT_ISSUER", "engage"),
		TokenTTL:        envDurationOr("TOKEN_TTL", time.Hour),
		StateStore:      StateStoreBackend(envOr("STATE_STORE", string(StateStoreMemory))),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		AuditTopic:      envOr("AUDIT_TOPIC", "engage.audit"),
		AuditBufferSize: envIntOr("AUDIT_BUFFER_SIZE", 256),
		ShutdownTimeout: envDurationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
