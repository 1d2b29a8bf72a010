package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newRateLimitedRouter(requests int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(RateLimit(requests, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newRateLimitedRouter(5)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
}

func TestRateLimitDifferentIPs(t *testing.T) {
	router := newRateLimitedRouter(2)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Different IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	router := newRateLimitedRouter(0)

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Request %d: Expected status 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	if !limiter.Allow("a") {
		t.Fatal("Expected first request to pass")
	}
	if limiter.Allow("a") {
		t.Error("Expected second request to be limited")
	}

	// pretend the client went quiet for longer than the window
	limiter.mu.Lock()
	limiter.clients["a"].lastSeen = time.Now().Add(-2 * time.Minute)
	limiter.lastSweep = time.Now().Add(-2 * time.Minute)
	limiter.mu.Unlock()

	if !limiter.Allow("b") {
		t.Fatal("Expected new client to pass")
	}
	limiter.mu.Lock()
	_, stillTracked := limiter.clients["a"]
	limiter.mu.Unlock()
	if stillTracked {
		t.Error("Expected idle client to be swept")
	}
}

func TestNewRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute)

	if limiter.burst != 60 {
		t.Errorf("Expected burst 60, got %d", limiter.burst)
	}
	if limiter.window != time.Minute {
		t.Errorf("Expected window 1 minute, got %v", limiter.window)
	}
	if float64(limiter.limit) != 1 {
		t.Errorf("Expected 1 token per second, got %v", limiter.limit)
	}
}
