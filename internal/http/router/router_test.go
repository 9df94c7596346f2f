package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/platform/logger"

	"github.com/gin-gonic/gin"
)

type routerConfigStub struct {
	staticDir  string
	serviceKey string
}

func (s routerConfigStub) GetHTTPAddr() string                     { return ":0" }
func (s routerConfigStub) GetStaticDir() string                    { return s.staticDir }
func (s routerConfigStub) GetCORSAllowAll() bool                   { return false }
func (s routerConfigStub) GetCORSOrigins() []string                { return []string{"http://localhost:3000"} }
func (s routerConfigStub) GetCORSAllowCreds() bool                 { return true }
func (s routerConfigStub) GetSessionSecret() string                { return "secret" }
func (s routerConfigStub) GetSessionTTL() time.Duration            { return time.Hour }
func (s routerConfigStub) GetSessionCookieName() string            { return "auth_token" }
func (s routerConfigStub) GetSessionCookieSecure() bool            { return false }
func (s routerConfigStub) GetSessionCookieSameSite() http.SameSite { return http.SameSiteLaxMode }
func (s routerConfigStub) GetCatalogServiceKey() string            { return s.serviceKey }

type failingHealth struct{}

func (failingHealth) Ping(context.Context) error { return errors.New("down") }

type stubModule struct{ registered bool }

func (m *stubModule) Name() string { return "stub" }
func (m *stubModule) RegisterRoutes(rc *apphttp.RouterContext) {
	m.registered = true
	rc.Protected.GET("/stub", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func TestHealthReportsServiceKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{Config: routerConfigStub{serviceKey: "k"}, Logger: logger.Nop()})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "OK" || body["apiKeySet"] != true {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthStaysUpWhenHistoryBackendDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{Config: routerConfigStub{}, Logger: logger.Nop(), Health: failingHealth{}})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "OK" || body["historyStore"] != "unavailable" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestModulesMountOnProtectedGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	module := &stubModule{}
	engine := New(&apphttp.App{Config: routerConfigStub{}, Logger: logger.Nop(), Modules: []apphttp.Module{module}})

	if !module.registered {
		t.Fatal("expected module routes to be registered")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stub", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestStaticPagesRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	for name, content := range map[string]string{
		"index.html": "<html>index</html>",
		"login.html": "<html>login</html>",
		"script.js":  "console.log(1)",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	engine := New(&apphttp.App{Config: routerConfigStub{staticDir: dir}, Logger: logger.Nop()})

	cases := []struct {
		path string
		want int
	}{
		{"/", http.StatusFound},
		{"/index.html", http.StatusFound},
		{"/login.html", http.StatusOK},
		{"/script.js", http.StatusOK},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.want, rec.Code)
		}
	}
}
