// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roxeraf/pfep/internal/analytics"
	"github.com/Roxeraf/pfep/internal/api"
	"github.com/Roxeraf/pfep/internal/cache"
	"github.com/Roxeraf/pfep/internal/catalog"
	"github.com/Roxeraf/pfep/internal/catalog/postgres"
	"github.com/Roxeraf/pfep/internal/config"
	"github.com/Roxeraf/pfep/internal/service"
	"github.com/Roxeraf/pfep/internal/storage"
	"github.com/Roxeraf/pfep/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store := catalog.NewStore()

	// Optional persistence: when enabled the catalog is loaded from
	// Postgres at boot and every edit writes through.
	var writer service.PartWriter
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		repo := postgres.NewPartRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to ensure schema")
		}

		snapshot, err := repo.List(context.Background())
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to load catalog")
		}
		store.ImportRecords(snapshot, true)
		logger.Log.Info().Int("parts", store.Len()).Msg("Catalog loaded from database")

		writer = repo
	}

	ratingCache, err := cache.NewRatingCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize rating cache")
	}

	overstockRule, err := analytics.OverstockRuleByName(cfg.Analytics.OverstockRule)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("rule", cfg.Analytics.OverstockRule).Msg("Invalid overstock rule")
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewS3Client(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize archive storage")
		}
		archive = client
	}

	services := &api.Services{
		CatalogService:   service.NewCatalogService(store, writer),
		AnalyticsService: service.NewAnalyticsService(store, ratingCache, overstockRule, cfg.Analytics.ForecastHorizon),
		Archive:          archive,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
