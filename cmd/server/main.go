package main

// Package main is the entry point for the datasight-ai server.
//
// Responsibilities:
//   - Load and validate configuration from YAML and environment variables
//   - Initialize the rotating application/audit loggers
//   - Open the analysis-history store
//   - Start the HTTP server (analysis pipeline, health, metrics)
//   - Implement graceful shutdown on SIGINT/SIGTERM

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/datasight/datasight-ai/internal/audit"
	"github.com/datasight/datasight-ai/internal/config"
	"github.com/datasight/datasight-ai/internal/db"
	"github.com/datasight/datasight-ai/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	manager := config.NewManager(*configPath)
	cfg, err := manager.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := audit.New(&audit.Config{
		AppLogPath:   cfg.Logging.AppLogPath,
		AuditLogPath: cfg.Logging.AuditLogPath,
		Level:        cfg.Logging.Level,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	history, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history store: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	srv, err := server.New(cfg, logger, history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}

	// Log config-file changes; the running server keeps its wiring until
	// restart.
	go func() {
		for range manager.Watch() {
			logger.App().Info("configuration file changed; restart to apply")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.App().Info("received shutdown signal")

	if err := srv.Stop(); err != nil {
		logger.App().Error("error stopping server", zap.Error(err))
		os.Exit(1)
	}
	logger.App().Info("shutdown complete")
}
