package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
	return r
}

func TestHealthCheck(t *testing.T) {
	r := newRouter(NewHandler("1.2.3", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.2.3" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]Pinger
		want   int
	}{
		{"no checks", nil, http.StatusOK},
		{"store ok", map[string]Pinger{"store": pingFunc(func(context.Context) error { return nil })}, http.StatusOK},
		{"store down", map[string]Pinger{
			"store": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewHandler("test", tt.checks))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestLivenessCheck(t *testing.T) {
	r := newRouter(NewHandler("test", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
