package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/api"
	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/config"
	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz/ingest"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx)
	if err != nil {
		logger.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	maxBytes := cfg.MaxUploadBytes
	if maxBytes == 0 {
		maxBytes = ingest.MaxFileBytes
	}

	router := api.NewRouter(svc, api.RouterOptions{
		Logger:      logger,
		DevMode:     cfg.IsDevelopment(),
		CORSOrigins: cfg.CORSOrigins,
		// Multipart framing overhead on top of the file size limit
		MaxBodyBytes: maxBytes + (1 << 20),
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Tekmiz server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseType,
			"storage", cfg.Storage.Type,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
