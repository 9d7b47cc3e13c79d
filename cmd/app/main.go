package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/geosuggest-api/internal/api"
	"github.com/alexivanou/geosuggest-api/internal/config"
	"github.com/alexivanou/geosuggest-api/internal/database"
	"github.com/alexivanou/geosuggest-api/internal/gazetteer"
	"github.com/alexivanou/geosuggest-api/internal/logger"
	"github.com/alexivanou/geosuggest-api/internal/repository"
	"github.com/alexivanou/geosuggest-api/internal/seeder"
	"github.com/alexivanou/geosuggest-api/internal/service"
	"github.com/alexivanou/geosuggest-api/internal/stats"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var (
		svc            *service.Service
		statsCollector *stats.Collector
	)

	if cfg.UsesDB() {
		db := openDatabase(ctx, cfg, logger)
		defer db.Close()

		repos := repository.NewRepositories(db, cfg.DB.Type)

		isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
		if err != nil {
			logger.Fatal("Failed to check if database is empty", zap.Error(err))
		}
		if isEmpty {
			logger.Info("Database is empty, auto-seeding data...")
			if _, err := seeder.New(repos, cfg.Data, cfg.Seeder, logger).Run(ctx); err != nil {
				logger.Fatal("Failed to auto-seed database", zap.Error(err))
			}
			logger.Info("Database seeded successfully")
		}

		svc = service.NewService(repos.Place, repos.Country, logger)
		statsCollector = stats.NewCollector(db, cfg, nil)
	} else {
		places, err := gazetteer.NewFileSource(cfg.Data.GazetteerPath, logger)
		if err != nil {
			logger.Fatal("Failed to open gazetteer", zap.Error(err))
		}

		countries, err := gazetteer.LoadCountryFile(cfg.Data.CountriesPath)
		if err != nil {
			logger.Fatal("Failed to load countries", zap.Error(err))
		}
		logger.Info("Loaded country names",
			zap.String("path", cfg.Data.CountriesPath),
			zap.Int("count", countries.Len()),
		)

		svc = service.NewService(places, countries, logger)
		statsCollector = stats.NewCollector(nil, cfg, countries)
	}

	router := api.NewRouter(svc, statsCollector, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("source", string(cfg.Source)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) *sqlx.DB {
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB.Type); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	return db
}
