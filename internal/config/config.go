package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	// Classifier endpoint settings.
	ClassifierBaseURL string
	ClassifierAPIKey  string
	ClassifierModel   string
	ClassifierTimeout time.Duration

	// Shared secret for verifying platform-issued bearer tokens.
	JWTSecret string

	// Review queue escalation job.
	QueueEscalationCron string
	QueueStaleAfter     time.Duration
}

// Load reads env vars and falls back to defaults so the server can boot
// with zero configuration (except the classifier API key).
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("SCM_ENV", "development"),
		HTTPPort:     getEnv("SCM_HTTP_PORT", "8080"),
		DatabasePath: getEnv("SCM_DB_PATH", filepath.Join("data", "moderation.db")),

		ClassifierBaseURL: getEnv("SCM_CLASSIFIER_URL", "https://api.anthropic.com"),
		ClassifierAPIKey:  os.Getenv("SCM_CLASSIFIER_API_KEY"),
		ClassifierModel:   getEnv("SCM_CLASSIFIER_MODEL", "claude-3-5-haiku-latest"),
		ClassifierTimeout: getDurationEnv("SCM_CLASSIFIER_TIMEOUT_SECONDS", 30*time.Second),

		JWTSecret: os.Getenv("SCM_JWT_SECRET"),

		QueueEscalationCron: getEnv("SCM_QUEUE_ESCALATION_CRON", "@every 1h"),
		QueueStaleAfter:     getDurationEnv("SCM_QUEUE_STALE_AFTER_SECONDS", 12*time.Hour),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
