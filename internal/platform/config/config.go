package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	PollInterval time.Duration
	PollWarmup   time.Duration
	PollBatch    int

	InboxPageSize int

	ResendAPIKey string
	EmailFrom    string
	EmailBatch   int

	EnableLifecycleEmail bool
	EnablePushHeartbeat  bool
}

func Load() (Config, error) {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "electra"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		PollInterval: envDuration("LIFECYCLE_POLL_INTERVAL", time.Minute),
		PollWarmup:   envDuration("LIFECYCLE_POLL_WARMUP", 10*time.Second),
		PollBatch:    envInt("LIFECYCLE_POLL_BATCH", 100),

		InboxPageSize: envInt("INBOX_PAGE_SIZE", 50),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),
		EmailBatch:   envInt("EMAIL_BATCH_SIZE", 50),

		EnableLifecycleEmail: envBool("ENABLE_LIFECYCLE_EMAIL", true),
		EnablePushHeartbeat:  envBool("ENABLE_PUSH_HEARTBEAT", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
