package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseURL string

	// Remote itinerary store
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	OutboxMaxRetries      int
	OutboxRetentionDays   int
	OutboxCleanupInterval time.Duration

	// Offline queue
	QueueDrainInterval time.Duration
	QueueBatchSize     int

	// Drag engine
	HistoryMaxSize     int
	RetryBaseDelay     time.Duration
	RetryMaxAttempts   int
	TravelRulesEnabled bool

	// Drag preferences
	DragThreshold    int
	LongPressDelayMs int
	SnapToGrid       bool
	ShowPreview      bool
	AutoScroll       bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("WAYFARER_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:    getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:       getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:      getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:   getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval: getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),

		QueueDrainInterval: getDurationEnv("QUEUE_DRAIN_INTERVAL", 30*time.Second),
		QueueBatchSize:     getIntEnv("QUEUE_BATCH_SIZE", 50),

		HistoryMaxSize:     getIntEnv("HISTORY_MAX_SIZE", 50),
		RetryBaseDelay:     getDurationEnv("RETRY_BASE_DELAY", time.Second),
		RetryMaxAttempts:   getIntEnv("RETRY_MAX_ATTEMPTS", 3),
		TravelRulesEnabled: getBoolEnv("TRAVEL_RULES_ENABLED", true),

		DragThreshold:    getIntEnv("DRAG_THRESHOLD", 5),
		LongPressDelayMs: getIntEnv("LONG_PRESS_DELAY_MS", 300),
		SnapToGrid:       getBoolEnv("SNAP_TO_GRID", true),
		ShowPreview:      getBoolEnv("SHOW_PREVIEW", true),
		AutoScroll:       getBoolEnv("AUTO_SCROLL", true),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
