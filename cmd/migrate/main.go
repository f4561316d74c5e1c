package main

import (
	"os"

	"creator-marketplace/internal/config"
	"creator-marketplace/internal/database"
	"creator-marketplace/internal/logging"
)

func main() {
	logger := logging.New("creator-marketplace-migrate")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := database.Connect(cfg.GetDSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	logger.Info("schema is up to date", "models", len(database.Models()))
}
