package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"lifeadmin/internal/amqp"
	"lifeadmin/internal/config"
	"lifeadmin/internal/core"
	apphttp "lifeadmin/internal/http"
	"lifeadmin/internal/log"
	"lifeadmin/internal/services"
	"lifeadmin/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The event stream is optional; without it transactions are recorded
	// locally only.
	var publisher services.LedgerPublisher
	if cfg.LedgerSync {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Ledger event stream enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger event stream disabled")
	}

	projector := core.NewProjector(cfg.USDToINRRate)
	finance := services.NewFinanceService(repo, projector, publisher)
	dashboard := services.NewDashboardService(repo, repo)

	// Opt-in monthly rollover: first of the month, zero the running totals.
	var scheduler *cron.Cron
	if cfg.RolloverReset {
		scheduler = cron.New()
		_, err := scheduler.AddFunc("5 0 1 * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := finance.ResetMonthlyTotals(ctx); err != nil {
				slog.Error("Monthly rollover failed", "error", err)
			}
		})
		if err != nil {
			logger.Error("Failed to schedule monthly rollover", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info("Monthly rollover job scheduled")
	}

	srv := apphttp.NewServer(":"+cfg.Port, finance, dashboard, repo)
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if scheduler != nil {
			scheduler.Stop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting lifeadmin server",
		"port", cfg.Port,
		"db_path", cfg.SQLiteDBPath,
		"usd_inr_rate", projector.Rate())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
