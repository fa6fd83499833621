package worker

import (
	"context"
	"encoding/json"
	"io"

	"academic-records-db/internal/config"
	"academic-records-db/internal/importer"
	"academic-records-db/internal/logger"
	"academic-records-db/internal/model"
	"academic-records-db/internal/queue"
	"academic-records-db/internal/storage"
	"academic-records-db/pkg/errors"

	"github.com/rs/zerolog"
)

// ImportWorker drains queued import jobs and runs each through the same
// pipeline the synchronous endpoint uses.
type ImportWorker struct {
	cfg        *config.Config
	importer   *importer.Service
	storage    storage.Storage
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewImportWorker(
	cfg *config.Config,
	importSvc *importer.Service,
	store storage.Storage,
	redisClient *queue.RedisClient,
) *ImportWorker {
	return &ImportWorker{
		cfg:        cfg,
		importer:   importSvc,
		storage:    store,
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Import.Count),
		log:        logger.Get(),
	}
}

func (w *ImportWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting import worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeImportQueue(ctx, w.handleMessage)
}

func (w *ImportWorker) Stop() {
	w.log.Info().Msg("Stopping import worker")
	w.workerPool.Stop()
}

func (w *ImportWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.ImportJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal import job")
		return err
	}

	w.log.Info().Str("storage_key", job.StorageKey).Str("file_name", job.FileName).Msg("Processing import job")

	w.workerPool.Submit(func(ctx context.Context) error {
		return w.processJob(ctx, job)
	})

	return nil
}

func (w *ImportWorker) processJob(ctx context.Context, job model.ImportJob) error {
	log := w.log.With().Str("storage_key", job.StorageKey).Logger()

	reader, err := w.storage.Download(ctx, job.StorageKey)
	if err != nil {
		log.Error().Err(err).Msg("Failed to download file")
		return err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read file data")
		return err
	}

	if _, err := w.importer.Import(ctx, data, job.FileName, job.UserID); err != nil {
		// Document faults already produced their failure audit row and will
		// never succeed on retry; a warning is all that is left to do.
		if errors.IsInputError(err) {
			log.Warn().Err(err).Msg("Import rejected")
			return nil
		}
		log.Error().Err(err).Msg("Import failed")
		return err
	}

	log.Info().Msg("Import job completed")
	return nil
}
