package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArthurBash/telegramBot/config"
	"github.com/ArthurBash/telegramBot/internal/bootstrap"
	"github.com/ArthurBash/telegramBot/pkg/logger"

	"github.com/joho/godotenv"
)

const (
	shutdownTimeout = 30 * time.Second // Maximum time to wait for graceful shutdown
)

func main() {
	// Initialize logger early
	logger.Init(logger.Config{
		Level:   logger.LevelInfo,
		Service: "categorizer-bot",
	})

	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	mode := flag.String("mode", "all", "Run mode: api, bot, all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// The logger starts at INFO so config loading itself is logged;
	// apply the configured level now that it is known.
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	switch *mode {
	case "api":
		runAPI(cfg)
	case "bot":
		runBot(cfg)
	case "all":
		go runBot(cfg)
		runAPI(cfg)
	default:
		logger.Fatal("Unknown mode: %s", *mode)
	}
}

func runAPI(cfg *config.Config) {
	app, cleanup, err := bootstrap.NewAPI(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API: %v", err)
	}
	defer cleanup()

	// Graceful shutdown with timeout
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server (timeout: %v)...", shutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- app.Shutdown()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Error("Error shutting down: %v", err)
			} else {
				logger.Info("API server shut down gracefully")
			}
		case <-ctx.Done():
			logger.Warn("API shutdown timed out, forcing exit")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("Starting API server on %s", addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

func runBot(cfg *config.Config) {
	tgBot, cleanup, err := bootstrap.NewBot(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize bot: %v", err)
	}
	defer cleanup()

	// Graceful shutdown with timeout
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down bot (timeout: %v)...", shutdownTimeout)

		done := make(chan struct{})
		go func() {
			tgBot.Stop()
			close(done)
		}()

		select {
		case <-done:
			logger.Info("Bot shut down gracefully")
		case <-time.After(shutdownTimeout):
			logger.Warn("Bot shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	logger.Info("Starting bot...")
	if err := tgBot.Start(); err != nil {
		logger.Fatal("Bot stopped with error: %v", err)
	}
}
