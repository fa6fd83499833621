package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"academic-records-db/internal/config"
	"academic-records-db/internal/db"
	"academic-records-db/internal/importer"
	"academic-records-db/internal/logger"
	"academic-records-db/internal/metrics"
	"academic-records-db/internal/model"
	"academic-records-db/internal/queue"
	"academic-records-db/internal/report"
	"academic-records-db/internal/storage"
	"academic-records-db/internal/xmldoc"
	"academic-records-db/pkg/checksum"
	"academic-records-db/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	repo     db.Repository
	importer *importer.Service
	metrics  *metrics.Service
	reports  *report.Service
	producer *queue.Producer
	storage  storage.Storage
	codec    xmldoc.Codec
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	importSvc *importer.Service,
	metricsSvc *metrics.Service,
	reportSvc *report.Service,
	producer *queue.Producer,
	store storage.Storage,
	codec xmldoc.Codec,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:     repo,
		importer: importSvc,
		metrics:  metricsSvc,
		reports:  reportSvc,
		producer: producer,
		storage:  store,
		codec:    codec,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err == errors.ErrImportNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Importação não encontrada"})
	case err == errors.ErrUnsupportedFormat:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato não suportado"})
	case err == errors.ErrInvalidFileFormat:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Apenas arquivos XML são aceitos"})
	case err == errors.ErrOriginalFileMissing:
		h.log.Error().Err(err).Msg("Original file missing from storage")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Arquivo original não encontrado"})
	default:
		h.log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// userID reads the optional uploader identity set by the fronting auth layer.
func userID(c *gin.Context) *int64 {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) readUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo não enviado"})
		return nil, "", false
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xml") {
		h.respondError(c, errors.ErrInvalidFileFormat)
		return nil, "", false
	}
	if h.cfg.Server.MaxUploadBytes > 0 && fileHeader.Size > h.cfg.Server.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo excede o tamanho máximo"})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

func (h *Handler) ImportFile(c *gin.Context) {
	data, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.importer.Import(c.Request.Context(), data, fileName, userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportFileAsync parks the upload in object storage and enqueues a job for
// the import worker. The response only acknowledges the queueing.
func (h *Handler) ImportFileAsync(c *gin.Context) {
	data, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	key := storage.OriginalKey(checksum.FromBytes(data))
	if err := h.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		h.respondError(c, err)
		return
	}

	job := model.ImportJob{
		StorageKey: key,
		FileName:   fileName,
		UserID:     userID(c),
	}
	if err := h.producer.EnqueueImportJob(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue import job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue import job"})
		return
	}

	h.log.Info().Str("file_name", fileName).Str("storage_key", key).Msg("Import job enqueued")
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Import job queued successfully",
		"job":     job,
	})
}

func (h *Handler) ValidateFile(c *gin.Context) {
	data, _, ok := h.readUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.codec.Validate(c.Request.Context(), data))
}

func (h *Handler) ListImports(c *gin.Context) {
	var uid *int64
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		uid = &id
	}

	logs, err := h.repo.ListImportLogs(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) GetImport(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	log, err := h.repo.GetImportLog(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *Handler) GetOriginalFile(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	data, fileName, err := h.reports.OriginalFile(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/xml", data)
}

func (h *Handler) GetConsolidated(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	format := c.Param("format")

	content, err := h.reports.Consolidated(c.Request.Context(), id, format)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "consolidado."+format))
	c.Data(http.StatusOK, report.ContentType(format), content)
}

func (h *Handler) StudentMetrics(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	m, err := h.metrics.Student(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) ClassMetrics(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	stats, err := h.metrics.Class(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) CourseMetrics(c *gin.Context) {
	stats, err := h.metrics.Course(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) OverallMetrics(c *gin.Context) {
	m, err := h.metrics.Overall(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) StudentsReport(c *gin.Context) {
	students, err := h.reports.Students(c.Request.Context(), c.Query("courseCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) ClassesReport(c *gin.Context) {
	classes, err := h.reports.Classes(c.Request.Context(), c.Query("courseCode"), c.Query("semester"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *Handler) CoursesReport(c *gin.Context) {
	courses, err := h.reports.Courses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}
