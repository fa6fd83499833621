package importer

import (
	"bytes"
	"context"
	"strings"
	"time"

	"academic-records-db/internal/db"
	"academic-records-db/internal/logger"
	"academic-records-db/internal/model"
	"academic-records-db/internal/storage"
	"academic-records-db/internal/xmldoc"
	"academic-records-db/pkg/checksum"
	"academic-records-db/pkg/errors"

	"github.com/rs/zerolog"
)

// MetricsRefresher is the post-commit hook the pipeline triggers after a
// successful import.
type MetricsRefresher interface {
	Refresh(ctx context.Context) error
}

// Service is the import pipeline. One call walks a document from raw bytes
// to either a committed multi-entity upsert or a failure audit row; every
// attempt leaves exactly one import_logs row behind.
type Service struct {
	repo    db.Repository
	storage storage.Storage
	codec   xmldoc.Codec
	metrics MetricsRefresher
	log     zerolog.Logger
}

func NewService(repo db.Repository, store storage.Storage, codec xmldoc.Codec, metrics MetricsRefresher) *Service {
	return &Service{
		repo:    repo,
		storage: store,
		codec:   codec,
		metrics: metrics,
		log:     logger.Get(),
	}
}

func (s *Service) Import(ctx context.Context, data []byte, fileName string, userID *int64) (*model.ImportResult, error) {
	start := time.Now()
	fileHash := checksum.FromBytes(data)

	log := s.log.With().Str("file_name", fileName).Str("file_hash", fileHash).Logger()
	log.Info().Int("size_bytes", len(data)).Msg("Starting import")

	result, err := s.run(ctx, data, fileName, fileHash, userID, start)
	if err != nil {
		s.logFailure(ctx, fileName, fileHash, userID, start, err)
		log.Warn().Err(err).Msg("Import failed")
		return nil, err
	}

	// Post-commit hook; metrics are recomputed on read, so a hook failure
	// must not fail an already-committed import.
	if hookErr := s.metrics.Refresh(ctx); hookErr != nil {
		log.Error().Err(hookErr).Msg("Metrics refresh hook failed")
	}

	log.Info().
		Int64("import_log_id", result.ImportLogID).
		Int("students", result.StudentsImported).
		Int("courses", result.CoursesImported).
		Int("classes", result.ClassesImported).
		Int("enrollments", result.EnrollmentsImported).
		Dur("duration", time.Since(start)).
		Msg("Import completed")

	return result, nil
}

func (s *Service) run(ctx context.Context, data []byte, fileName, fileHash string, userID *int64, start time.Time) (*model.ImportResult, error) {
	validation := s.codec.Validate(ctx, data)
	if !validation.Valid {
		return nil, errors.NewInputError("Validação XML falhou: %s", strings.Join(validation.Errors, ", "))
	}

	doc, err := s.codec.Parse(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := s.codec.CheckRules(ctx, doc); err != nil {
		return nil, err
	}

	// Originals are stored content-addressed, so re-importing identical
	// bytes overwrites with identical content.
	if err := s.storage.Upload(ctx, storage.OriginalKey(fileHash), bytes.NewReader(data)); err != nil {
		return nil, err
	}

	log := &model.ImportLog{
		UserID:          userID,
		FileName:        fileName,
		FileHash:        fileHash,
		RecordsImported: len(doc.Students),
		Status:          model.ImportStatusSuccess,
		ProcessingTime:  time.Since(start).Milliseconds(),
	}

	return s.repo.SaveDocument(ctx, doc, log)
}

// logFailure writes the failure audit row outside any transaction, so it
// survives the rollback it reports on.
func (s *Service) logFailure(ctx context.Context, fileName, fileHash string, userID *int64, start time.Time, cause error) {
	msg := cause.Error()
	log := &model.ImportLog{
		UserID:          userID,
		FileName:        fileName,
		FileHash:        fileHash,
		RecordsImported: 0,
		Status:          model.ImportStatusFailure,
		ErrorMessage:    &msg,
		ProcessingTime:  time.Since(start).Milliseconds(),
	}

	if _, err := s.repo.InsertImportLog(ctx, log); err != nil {
		s.log.Error().Err(err).Str("file_name", fileName).Msg("Failed to write failure audit row")
	}
}
