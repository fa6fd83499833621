package report

import (
	"bytes"
	"context"
	"io"
	"time"

	"academic-records-db/internal/db"
	"academic-records-db/internal/logger"
	"academic-records-db/internal/metrics"
	"academic-records-db/internal/model"
	"academic-records-db/internal/storage"
	"academic-records-db/pkg/errors"

	"github.com/rs/zerolog"
)

type Service struct {
	repo    db.Repository
	metrics *metrics.Service
	storage storage.Storage
	log     zerolog.Logger
}

func NewService(repo db.Repository, metricsSvc *metrics.Service, store storage.Storage) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsSvc,
		storage: store,
		log:     logger.Get(),
	}
}

func (s *Service) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	overall, err := s.metrics.Overall(ctx)
	if err != nil {
		return nil, err
	}

	totalCourses, err := s.repo.CountCourses(ctx)
	if err != nil {
		return nil, err
	}
	totalClasses, err := s.repo.CountClasses(ctx)
	if err != nil {
		return nil, err
	}
	totalImports, err := s.repo.CountImports(ctx, model.ImportStatusSuccess)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		OverallMetrics: *overall,
		TotalCourses:   totalCourses,
		TotalClasses:   totalClasses,
		TotalImports:   totalImports,
	}, nil
}

func (s *Service) Students(ctx context.Context, courseCode string) ([]model.StudentReport, error) {
	students, err := s.repo.ListStudents(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	reports := make([]model.StudentReport, 0, len(students))
	for _, student := range students {
		m, err := s.metrics.Student(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, model.StudentReport{Student: student, StudentMetrics: *m})
	}
	return reports, nil
}

func (s *Service) Classes(ctx context.Context, courseCode, semester string) ([]model.ClassReport, error) {
	classes, err := s.repo.ListClasses(ctx, courseCode, semester)
	if err != nil {
		return nil, err
	}

	reports := make([]model.ClassReport, 0, len(classes))
	for _, class := range classes {
		stats, err := s.metrics.Class(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, model.ClassReport{ClassWithCourse: class, GradeStats: *stats})
	}
	return reports, nil
}

func (s *Service) Courses(ctx context.Context) ([]model.CourseReport, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]model.CourseReport, 0, len(courses))
	for _, course := range courses {
		stats, err := s.metrics.Course(ctx, course.Code)
		if err != nil {
			return nil, err
		}
		reports = append(reports, model.CourseReport{Course: course, GradeStats: *stats})
	}
	return reports, nil
}

// OriginalFile returns the uploaded bytes of an import, located through the
// content hash recorded on its audit row.
func (s *Service) OriginalFile(ctx context.Context, importID int64) ([]byte, string, error) {
	log, err := s.repo.GetImportLog(ctx, importID)
	if err != nil {
		return nil, "", err
	}

	reader, err := s.storage.Download(ctx, storage.OriginalKey(log.FileHash))
	if err != nil {
		return nil, "", errors.ErrOriginalFileMissing
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", err
	}
	return data, log.FileName, nil
}

// ContentType returns the MIME type for a consolidated export format.
func ContentType(format string) string {
	switch format {
	case "xml":
		return "application/xml"
	case "csv":
		return "text/csv"
	case "json":
		return "application/json"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Consolidated serves the cached export for (import content hash, format),
// generating and caching it on first request. Because the key is the content
// hash, every import of identical bytes shares one artifact per format.
func (s *Service) Consolidated(ctx context.Context, importID int64, format string) ([]byte, error) {
	switch format {
	case "xml", "csv", "json", "pdf":
	default:
		return nil, errors.ErrUnsupportedFormat
	}

	log, err := s.repo.GetImportLog(ctx, importID)
	if err != nil {
		return nil, err
	}

	key := storage.ConsolidatedKey(log.FileHash, format)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache lookup failed, regenerating")
	}
	if exists {
		reader, err := s.storage.Download(ctx, key)
		if err == nil {
			defer reader.Close()
			return io.ReadAll(reader)
		}
		s.log.Warn().Err(err).Str("key", key).Msg("Cached export unreadable, regenerating")
	}

	content, err := s.generate(ctx, format)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(content)); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to cache consolidated export")
	}
	return content, nil
}

func (s *Service) generate(ctx context.Context, format string) ([]byte, error) {
	students, err := s.Students(ctx, "")
	if err != nil {
		return nil, err
	}

	switch format {
	case "xml":
		return renderXML(students)
	case "csv":
		return renderCSV(students)
	case "json":
		return renderJSON(students, time.Now().UTC())
	case "pdf":
		dashboard, err := s.Dashboard(ctx)
		if err != nil {
			return nil, err
		}
		courses, err := s.Courses(ctx)
		if err != nil {
			return nil, err
		}
		return renderPDF(dashboard, students, courses)
	}
	return nil, errors.ErrUnsupportedFormat
}
