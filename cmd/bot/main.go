// Package main contains the entrypoint for the chatbot web server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mrocha/faqbot/internal/config"
	"github.com/mrocha/faqbot/internal/database"
	"github.com/mrocha/faqbot/internal/faq"
	"github.com/mrocha/faqbot/internal/generator"
	"github.com/mrocha/faqbot/internal/logger"
	"github.com/mrocha/faqbot/internal/scheduler"
	"github.com/mrocha/faqbot/internal/server"
	"github.com/mrocha/faqbot/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// FAQ matcher, generation client, scheduler, HTTP server), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// Optional .env for local development; missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env file")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	matcher := faq.Load(cfg.FAQ.Path, cfg.FAQ.Threshold, log)

	genClient, err := generator.NewClient(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize generation client", "error", err)
		return 1
	}

	sessions := session.NewManager(cfg.Server.SessionSecret, log)
	transcripts := session.NewDBStore(store)

	sched, err := scheduler.NewScheduler(log, &cfg.Scheduler, store)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	if err := sched.Start(); err != nil {
		log.Error("Failed to start scheduler", "error", err)
		return 1
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("Failed to stop scheduler", "error", err)
		}
	}()

	srv := server.New(cfg, log, matcher, genClient, store, sessions, transcripts)

	log.Info("Starting chatbot...")
	runErr := srv.Run(ctx)
	log.Info("Server run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Server stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Server stopped gracefully.")
	return 0
}
