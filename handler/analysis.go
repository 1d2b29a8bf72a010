package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/AnTengye/lawassistant/analysis"
	"github.com/AnTengye/lawassistant/config"
	"github.com/AnTengye/lawassistant/model"
	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/AnTengye/lawassistant/report"
	"github.com/AnTengye/lawassistant/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistorySource lists past analyses, newest first, and looks one up by id
type HistorySource interface {
	RecentAnalyses(ctx context.Context, limit int) ([]model.AnalysisResult, error)
	GetAnalysis(ctx context.Context, id string) (*model.AnalysisResult, error)
}

type AnalysisHandler struct {
	analyzer  *service.Analyzer
	history   HistorySource
	uploadDir string
	maxUpload int64
}

func NewAnalysisHandler(analyzer *service.Analyzer, history HistorySource, cfg *config.ServerConfig) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:  analyzer,
		history:   history,
		uploadDir: cfg.UploadDir,
		maxUpload: cfg.MaxUploadMB << 20,
	}
}

// Analyze handles a multipart contract upload in field "file"
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %d MB", h.maxUpload>>20))
			return
		}
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	format, err := analysis.FormatFromFilename(header.Filename)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgUnsupportedFormat)
		return
	}

	path, err := h.spool(file, format)
	if err != nil {
		logger.Error(ctx, "failed to save upload", "filename", header.Filename, "error", err)
		respondError(c, http.StatusInternalServerError, msgAnalysisFailed)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn(ctx, "failed to remove upload", "path", path, "error", err)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error(ctx, "failed to read upload", "path", path, "error", err)
		respondError(c, http.StatusInternalServerError, msgAnalysisFailed)
		return
	}

	logger.Info(ctx, "analysing upload", "filename", header.Filename, "size", len(data))

	result, err := h.analyzer.AnalyzeFormat(ctx, header.Filename, format, data)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, report.NewDocument(result))
}

// spool copies the upload to "<uuid><ext>" under the upload directory
func (h *AnalysisHandler) spool(src multipart.File, format analysis.DocumentFormat) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(h.uploadDir, uuid.New().String()+format.Extension())
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// History returns the most recent analyses
func (h *AnalysisHandler) History(c *gin.Context) {
	results, err := h.history.RecentAnalyses(c.Request.Context(), service.HistoryLimit)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load history", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	docs := make([]report.Document, 0, len(results))
	for i := range results {
		docs = append(docs, report.NewDocument(&results[i]))
	}
	c.JSON(http.StatusOK, docs)
}

// HistoryEntry returns one stored analysis
func (h *AnalysisHandler) HistoryEntry(c *gin.Context) {
	id := c.Param("id")

	result, err := h.history.GetAnalysis(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Analysis not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load analysis", "analysis_id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	c.JSON(http.StatusOK, report.NewDocument(result))
}
