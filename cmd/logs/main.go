// Package main contains the log viewer entrypoint. It prints the total
// interaction count and the most recent log rows to the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mrocha/faqbot/internal/config"
	"github.com/mrocha/faqbot/internal/database"
	"github.com/mrocha/faqbot/internal/logger"
)

const recentLimit = 5

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	// Keep slog output away from the report itself.
	log := logger.NewLogger("warn", cfg.Log.JSON)

	if _, err := os.Stat(database.ExtractDBNameFromPath(cfg.Database.Path)); err != nil {
		fmt.Println("DB file not found.")
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	count, err := store.CountInteractions(ctx)
	if err != nil {
		log.Error("Failed to count interactions", "error", err)
		return 1
	}
	fmt.Printf("Total logs: %d\n", count)

	recent, err := store.GetRecentInteractions(ctx, recentLimit)
	if err != nil {
		log.Error("Failed to fetch recent interactions", "error", err)
		return 1
	}

	fmt.Println("Recent logs:")
	for _, row := range recent {
		fmt.Printf("(%d, %q, %q, %q, %q)\n",
			row.ID, row.SessionID, row.UserInput, row.BotResponse,
			row.Timestamp.UTC().Format("2006-01-02T15:04:05"))
	}

	return 0
}
