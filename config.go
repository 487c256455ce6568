package main

import (
	"os"
	"time"

	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	ListenAddr      string
	WebhookSecret   string
	DatabasePath    string
	ShutdownTimeout time.Duration
}

// BuildConfig creates a configuration from environment variables
func BuildConfig() *Config {
	cfg := &Config{
		ListenAddr:    getEnvOrDefault("LISTEN_ADDR", ":8080"),
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", "./users.db"),
		WebhookSecret: getEnvOrFatal("CLERK_WEBHOOK_SECRET"),
	}

	shutdownTimeoutStr := getEnvOrDefault("SHUTDOWN_TIMEOUT", "10s")
	shutdownTimeout, err := time.ParseDuration(shutdownTimeoutStr)
	if err != nil {
		logger.Fatal("Invalid SHUTDOWN_TIMEOUT format", zap.String("value", shutdownTimeoutStr))
	}
	cfg.ShutdownTimeout = shutdownTimeout

	return cfg
}

// getEnvOrDefault returns an environment variable value or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvOrFatal returns an environment variable value or exits if not set
func getEnvOrFatal(key string) string {
	val := os.Getenv(key)
	if val == "" {
		logger.Fatal(key + " environment variable is required")
	}
	return val
}
