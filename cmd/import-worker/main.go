package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"academic-records-db/internal/config"
	"academic-records-db/internal/db"
	"academic-records-db/internal/importer"
	"academic-records-db/internal/logger"
	"academic-records-db/internal/metrics"
	"academic-records-db/internal/queue"
	"academic-records-db/internal/storage"
	"academic-records-db/internal/worker"
	"academic-records-db/internal/xmldoc"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting import worker")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize repository
	repo := db.NewRepository(database)

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize S3 storage
	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
	}

	// Initialize the import pipeline
	importSvc := importer.NewService(repo, s3Storage, xmldoc.NewCodec(), metrics.NewService(repo))

	// Create import worker
	importWorker := worker.NewImportWorker(cfg, importSvc, s3Storage, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := importWorker.Start(ctx); err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("Import worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down import worker...")

	// Cancel context to stop worker
	cancel()
	importWorker.Stop()

	log.Info().Msg("Import worker exited")
}
