package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	LogLevel        string
	APIToken        string
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	IntentThreshold float64
	MetricsEnabled  bool
	MaxMessageBytes int64
}

func Load() Config {
	return Config{
		Port:            envInt("HAVEN_PORT", 8760),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		APIToken:        envStr("HAVEN_API_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		SessionTTL:      envDuration("HAVEN_SESSION_TTL", 24*time.Hour),
		SweepInterval:   envDuration("HAVEN_SWEEP_INTERVAL", 5*time.Minute),
		IntentThreshold: envFloat("HAVEN_INTENT_THRESHOLD", 0.7),
		MetricsEnabled:  envBool("HAVEN_METRICS_ENABLED", true),
		MaxMessageBytes: int64(envInt("HAVEN_MAX_MESSAGE_BYTES", 8192)),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// envFloat accepts values in (0, 1].
func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
