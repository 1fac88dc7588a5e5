package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	corecfg "github.com/hooksink-lab/hooksink/internal/core/config"
	"github.com/hooksink-lab/hooksink/internal/core/storage/postgres"
	"github.com/hooksink-lab/hooksink/internal/ingestion"
	"github.com/hooksink-lab/hooksink/internal/migrations"
	"github.com/hooksink-lab/hooksink/internal/server"
	"github.com/hooksink-lab/hooksink/internal/webhook"
)

func main() {
	configPath := flag.String("config", "", "Path to optional YAML configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	dsn, err := cfg.Database.DSN()
	if err != nil {
		slog.Error("Failed to resolve document store credentials", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (PostgreSQL, one handle per process)
	store, err := postgres.SharedAdapter(dsn, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		slog.Error("Failed to initialize document store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(store.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Ingestion
	auth := webhook.NewAuthenticator(cfg.Auth.Hottok)
	ingestionSvc := ingestion.NewService(auth, store, cfg.Server.MaxBodySizeMB)

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store.DB(), cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)

	// 5. Start
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
