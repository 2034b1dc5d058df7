package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"recipe-catalog/internal/core/auth"
	"recipe-catalog/internal/core/image"
	"recipe-catalog/internal/core/searchstate"
	"recipe-catalog/internal/core/store"
	"recipe-catalog/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemoryStore()
	if _, err := store.Seed(ctx, st); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := auth.NewService(st).WithCost(bcrypt.MinCost)
	if _, err := svc.EnsureUsers(ctx, []string{"chef:secret"}); err != nil {
		t.Fatalf("users: %v", err)
	}
	states := searchstate.NewMemoryStore(10, time.Minute, 0)
	t.Cleanup(func() { _ = states.Close() })

	cfg := &config.Config{
		App:     config.AppConfig{Version: "test"},
		Session: config.SessionConfig{Name: "test_session", Secret: "0123456789abcdef", MaxAge: 3600},
		Chart:   config.ChartConfig{ColorScheme: "brand"},
		Media:   config.MediaConfig{Dir: t.TempDir(), URLPrefix: "/media", MaxSizeBytes: 1 << 20},
	}
	r, err := SetupRouter(cfg, Dependencies{
		Store:  st,
		States: states,
		Auth:   svc,
		Images: image.NewService(cfg.Media),
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return r
}

func serve(r http.Handler, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouterRequiresDependencies(t *testing.T) {
	if _, err := SetupRouter(&config.Config{}, Dependencies{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestPagesRequireLogin(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/recipes", nil), nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login?next=%2Frecipes" {
		t.Fatalf("unexpected redirect %d %q", w.Code, w.Header().Get("Location"))
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("home should be public, got %d", w.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{"username": {"chef"}, "password": {"nope"}, "next": {"/search"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(r, req, nil)
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "Invalid username or password.") {
		t.Fatalf("expected login error, got %d", w.Code)
	}

	form.Set("password", "secret")
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = serve(r, req, nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/search" {
		t.Fatalf("unexpected login redirect %d %q", w.Code, w.Header().Get("Location"))
	}
	cookies := w.Result().Cookies()

	w = serve(r, httptest.NewRequest(http.MethodGet, "/recipes", nil), cookies)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Pizza Margherita") {
		t.Fatalf("expected recipe list, got %d", w.Code)
	}

	// 已登入再開登入頁直接導向列表
	w = serve(r, httptest.NewRequest(http.MethodGet, "/login", nil), cookies)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/recipes" {
		t.Fatalf("unexpected redirect %d %q", w.Code, w.Header().Get("Location"))
	}

	w = serve(r, httptest.NewRequest(http.MethodPost, "/logout", nil), cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("logout: %d", w.Code)
	}
}

func TestOpenRedirectIsIgnored(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{"username": {"chef"}, "password": {"secret"}, "next": {"//evil.example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(r, req, nil)
	if w.Header().Get("Location") != "/recipes" {
		t.Fatalf("expected fallback redirect, got %q", w.Header().Get("Location"))
	}
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil), nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"code":"NOT_FOUND"`) {
		t.Fatalf("unexpected api 404 %d %s", w.Code, w.Body.String())
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil), nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Page not found") {
		t.Fatalf("unexpected page 404 %d", w.Code)
	}
}

func TestOperationalEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}
