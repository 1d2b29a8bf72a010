package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/AnTengye/lawassistant/report"
	"github.com/AnTengye/lawassistant/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports service.ReportStore
}

func NewReportHandler(reports service.ReportStore) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Download serves a stored report as an attachment
func (h *ReportHandler) Download(c *gin.Context) {
	id := c.Param("id")
	kind, ok := report.ParseKind(c.Param("kind"))
	if !ok {
		respondError(c, http.StatusNotFound, "Report not found")
		return
	}
	if !service.ValidReportID(id) {
		respondError(c, http.StatusNotFound, "Report not found")
		return
	}

	data, err := h.reports.Get(c.Request.Context(), id, kind)
	if errors.Is(err, service.ErrReportNotFound) {
		respondError(c, http.StatusNotFound, "Report not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load report", "analysis_id", id, "kind", kind, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to load report")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.%s", id, kind))
	c.Data(http.StatusOK, kind.ContentType(), data)
}
