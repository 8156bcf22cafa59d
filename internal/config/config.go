// Package config centralises configuration parsing for the activities service.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the activities service.
type Config struct {
	HTTPAddress     string
	StaticDir       string
	PostgresURL     string // empty selects the in-memory registry
	KafkaBrokers    []string
	RosterTopic     string
	PublisherBuffer int
	JWTSecret       string
	JWTIssuer       string
	CORSOrigin      string
}

// Load reads environment variables into Config, applying sensible defaults
// for local dev. A .env file in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8080"),
		StaticDir:       getEnv("STATIC_DIR", "static"),
		PostgresURL:     getEnv("POSTGRES_URL", ""),
		RosterTopic:     getEnv("ROSTER_EVENTS_TOPIC", "roster_events"),
		PublisherBuffer: getIntEnv("ROSTER_EVENTS_BUFFER", 64),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:       getEnv("JWT_ISSUER", "mergington.identity"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
