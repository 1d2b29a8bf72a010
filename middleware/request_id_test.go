package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/gin-gonic/gin"
)

func newRequestIDRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		fromCtx, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c), "ctx": fromCtx})
	})
	return router
}

func TestRequestIDGenerated(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	responseID := w.Header().Get(RequestIDHeader)
	if responseID == "" {
		t.Fatal("Expected X-Request-ID header to be set")
	}
	if !strings.Contains(w.Body.String(), `"ctx":"`+responseID+`"`) {
		t.Errorf("Expected request context to carry the id, got %s", w.Body.String())
	}
}

func TestRequestIDIncoming(t *testing.T) {
	router := newRequestIDRouter()

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"reuses valid id", "existing-request-id-123", true},
		{"replaces id with spaces", "bad id", false},
		{"replaces oversized id", strings.Repeat("a", 200), false},
		{"replaces non-ascii id", "ид-запроса", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(RequestIDHeader, tt.incoming)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			responseID := w.Header().Get(RequestIDHeader)
			if tt.reused && responseID != tt.incoming {
				t.Errorf("Expected request ID '%s', got '%s'", tt.incoming, responseID)
			}
			if !tt.reused && (responseID == tt.incoming || responseID == "") {
				t.Errorf("Expected a fresh request ID, got '%s'", responseID)
			}
		})
	}
}

func TestGetRequestIDEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("Expected empty string, got '%s'", requestID)
	}
}
