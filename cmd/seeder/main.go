package main

import (
	"context"
	"log"

	"github.com/alexivanou/geosuggest-api/internal/config"
	"github.com/alexivanou/geosuggest-api/internal/database"
	"github.com/alexivanou/geosuggest-api/internal/repository"
	"github.com/alexivanou/geosuggest-api/internal/seeder"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	// Ensure the schema exists, a fresh memory DB has none
	if err := database.Migrate(db, cfg.DB.Type); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Starting data import...")

	repos := repository.NewRepositories(db, cfg.DB.Type)
	result, err := seeder.New(repos, cfg.Data, cfg.Seeder, logger).Run(ctx)
	if err != nil {
		logger.Fatal("Data import failed", zap.Error(err))
	}

	logger.Info("Data import completed successfully!",
		zap.Int("countries", result.Countries),
		zap.Int("places", result.Places),
	)
}
