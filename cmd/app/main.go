package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitstudio/internal/config"
	"fitstudio/internal/db"
	"fitstudio/internal/email"
	"fitstudio/internal/jobs"
	"fitstudio/internal/logger"
	"fitstudio/internal/server"
)

// @title FitStudio API
// @version 1.0
// @description Subscription credits, group workouts and personal sessions for a fitness studio.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	logger.Info("Starting FitStudio application", "env", cfg.Env)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	emailService := email.New(cfg.Email, cfg.RedisAddr)
	defer emailService.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := emailService.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, emails will queue once it recovers", "addr", cfg.RedisAddr, "error", err)
	}
	go emailService.Start(ctx)
	logger.Info("Email worker started")

	srv := server.New(database, cfg, emailService, time.Now)

	expiration := jobs.NewExpirationJob(srv.Ledger(), cfg.ExpirySweepInterval, time.Now)
	expiration.Start(ctx)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	cancel()
	expiration.Stop()

	logger.Info("Server stopped")
}
