package main

import (
	"os"

	"github.com/oggyb/skilllink/internal/config"
	"github.com/oggyb/skilllink/internal/db"
	"github.com/oggyb/skilllink/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		return 1
	}
	logger.InitFromConfig(cfg)

	database, err := db.NewDB(cfg)
	if err != nil {
		logger.Error("failed to init db", "err", err)
		return 1
	}
	defer db.Close(database)

	if err := db.SeedTestData(database); err != nil {
		logger.Error("failed to seed", "err", err)
		return 1
	}

	logger.Info("seeding completed", "password", db.SeedPassword)
	return 0
}
