package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/troupe-insights/internal/config"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
	"github.com/ZanzyTHEbar/troupe-insights/internal/ratelimit"
	"github.com/ZanzyTHEbar/troupe-insights/internal/resilience"
)

// @title Troupe Insights API
// @version 1.0
// @description Voting analytics for group trip activities.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging setup
	appLogger := monitoring.NewLogger(cfg.SlogLevel())
	slog.SetDefault(appLogger.Logger)
	appMetrics := monitoring.NewMetrics()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	err = resilience.Retry(ctx, "database_open", resilience.StartupRetryConfig(), func(ctx context.Context) error {
		var openErr error
		db, openErr = database.NewDB(ctx, database.Config{
			Driver:  cfg.DatabaseDriver,
			DataDir: cfg.DataDir,
			URL:     cfg.DatabaseURL,
		})
		return openErr
	})
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Continuing without Redis", "error", err)
	}
	defer redisClient.Close()

	s := newServer(cfg, db, redisClient, appMetrics, appLogger)
	if err := s.start(ctx); err != nil {
		slog.Error("Failed to load dashboard", "error", err)
		os.Exit(1)
	}
	defer s.close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "env", cfg.Environment, "driver", db.Driver())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
