package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AnTengye/lawassistant/analysis"
	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	msgUnsupportedFormat = "Unsupported file format. Allowed: .txt, .docx, .pdf"
	msgTooShort          = "Document is too short or empty"
	msgAnalysisFailed    = "Analysis failed"
)

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// respondAnalysisError maps pipeline failures onto HTTP statuses.
// Anything that is not the uploader's fault is logged and hidden.
func respondAnalysisError(c *gin.Context, err error) {
	if !analysis.IsUserError(err) {
		logger.Error(c.Request.Context(), "analysis failed", "error", err)
		respondError(c, http.StatusInternalServerError, msgAnalysisFailed)
		return
	}

	switch {
	case errors.Is(err, analysis.ErrUnsupportedFormat):
		respondError(c, http.StatusBadRequest, msgUnsupportedFormat)
	case errors.Is(err, analysis.ErrDocumentTooShort):
		respondError(c, http.StatusBadRequest, msgTooShort)
	case analysis.IsExtractionError(err):
		respondError(c, http.StatusBadRequest, "Failed to extract text: "+extractionReason(err))
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}

// extractionReason drops the sentinel prefix, keeping the decoder's own message
func extractionReason(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{analysis.ErrParse, analysis.ErrDecode} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
