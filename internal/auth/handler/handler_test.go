package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ASEODA/narashop-estimate/internal/auth/service"
	"github.com/ASEODA/narashop-estimate/internal/auth/transport"
	"github.com/ASEODA/narashop-estimate/platform/logger"
	"github.com/ASEODA/narashop-estimate/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type authConfigStub struct {
	users map[string]string
}

func (s authConfigStub) GetSessionSecret() string                { return "secret" }
func (s authConfigStub) GetSessionTTL() time.Duration            { return time.Hour }
func (s authConfigStub) GetSessionCookieName() string            { return "auth_token" }
func (s authConfigStub) GetSessionCookieSecure() bool            { return false }
func (s authConfigStub) GetSessionCookieSameSite() http.SameSite { return http.SameSiteLaxMode }
func (s authConfigStub) GetAuthUsers() map[string]string         { return s.users }

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := authConfigStub{users: map[string]string{"admin": string(hash)}}
	h := New(service.New(cfg, logger.Nop()), cfg, validator.New())

	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/logout", h.Logout)
	r.GET("/api/session", h.Session)
	return r
}

func TestLoginSetsCookieAndSessionReportsUser(t *testing.T) {
	r := newRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"pass1234"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("expected http-only auth_token cookie, got %+v", cookie)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(rec, req)

	var body transport.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Authenticated || body.Username != "admin" {
		t.Fatalf("unexpected session %+v", body)
	}
}

func TestLoginFailures(t *testing.T) {
	r := newRouter(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"blank username", `{"username":"  ","password":"x"}`, http.StatusBadRequest},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected auth_token to be expired")
	}
}
