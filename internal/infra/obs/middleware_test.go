package obs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestTracingAssignsID(t *testing.T) {
	router := newRouter()
	router.Use(RequestTracing(nil))
	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if seen == "" {
		t.Fatal("no request id on context")
	}
	if got := resp.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("echoed id = %q, context id = %q", got, seen)
	}
}

func TestRequestTracingKeepsCallerID(t *testing.T) {
	router := newRouter()
	router.Use(RequestTracing(nil))
	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if seen != "req-123" {
		t.Errorf("context id = %q, want req-123", seen)
	}
	if got := resp.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("echoed id = %q, want req-123", got)
	}
}

func TestReadyzReportsBackend(t *testing.T) {
	router := newRouter()
	health := Health{Backend: "mongo", Check: func(ctx context.Context) error { return nil }}
	router.GET("/readyz", health.Readyz)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["backend"] != "mongo" || body["status"] != "ready" {
		t.Errorf("body = %v", body)
	}
}

func TestReadyzFailingCheck(t *testing.T) {
	router := newRouter()
	health := Health{Backend: "redis", Check: func(ctx context.Context) error { return errors.New("connection refused") }}
	router.GET("/readyz", health.Readyz)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["backend"] != "redis" {
		t.Errorf("backend = %q, want redis", body["backend"])
	}
}
