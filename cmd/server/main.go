package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rsvp/internal/config"
	"rsvp/internal/events"
	"rsvp/internal/httpapi"
	"rsvp/internal/reservation"
	"rsvp/internal/store/postgres"
)

func gracefulShutdown(srv *httpapi.Server, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("🛑 shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ server forced to shutdown with error: %v", err)
	}

	done <- true
}

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("🚀 starting reservation service")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("❌ invalid configuration", "error", err)
		os.Exit(1)
	}

	pool, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("❌ failed to connect to database", "error", err)
		os.Exit(1)
	}

	mgr := reservation.NewManager(pool)
	hub := events.NewHub()

	srv := httpapi.New(cfg, logger, mgr, hub)

	logger.Info("🎯 reservation service ready", "url", "http://localhost:"+cfg.Port, "environment", cfg.Environment)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, done)

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		logger.Error("❌ server startup error", "error", err)
		if dbErr := postgres.CloseConnection(pool); dbErr != nil {
			logger.Error("❌ failed to close database connection", "error", dbErr)
		}
		os.Exit(1)
	}

	<-done

	if err := postgres.CloseConnection(pool); err != nil {
		logger.Error("❌ failed to close database connection", "error", err)
	}

	logger.Info("✅ reservation service shutdown complete")
}
