package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

func init() {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	// Initialize logger with default config
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	atomic := zap.NewAtomicLevel()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		log.Fatal(err)
	}
	atomic.SetLevel(level)

	logger = zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stdout),
		atomic,
	))
}

func main() {
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration
	config := BuildConfig()
	logger.Info("Configuration loaded",
		zap.String("listenAddr", config.ListenAddr),
		zap.String("databasePath", config.DatabasePath),
		zap.Duration("shutdownTimeout", config.ShutdownTimeout))

	// Initialize database
	db, err := NewDatabase(config.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	webhook, err := NewWebhookHandler(config.WebhookSecret, db)
	if err != nil {
		logger.Fatal("Failed to initialize webhook handler", zap.Error(err))
	}

	server := NewServer(config.ListenAddr, webhook)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, stopping...")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down server", zap.Error(err))
	}
}
