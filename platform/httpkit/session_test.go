package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type sessionConfigStub struct {
	secret string
	ttl    time.Duration
}

func (s sessionConfigStub) GetSessionSecret() string                { return s.secret }
func (s sessionConfigStub) GetSessionTTL() time.Duration            { return s.ttl }
func (s sessionConfigStub) GetSessionCookieName() string            { return "auth_token" }
func (s sessionConfigStub) GetSessionCookieSecure() bool            { return false }
func (s sessionConfigStub) GetSessionCookieSameSite() http.SameSite { return http.SameSiteLaxMode }

func TestSessionTokenRoundTrip(t *testing.T) {
	cfg := sessionConfigStub{secret: "secret", ttl: time.Hour}

	token, _, err := IssueSessionToken(cfg, "admin", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	username, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if username != "admin" {
		t.Fatalf("expected admin, got %q", username)
	}

	other := sessionConfigStub{secret: "other", ttl: time.Hour}
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	cfg := sessionConfigStub{secret: "secret", ttl: time.Minute}

	token, _, err := IssueSessionToken(cfg, "admin", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestSessionRequiredMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := sessionConfigStub{secret: "secret", ttl: time.Hour}

	router := gin.New()
	router.GET("/api/history", SessionRequired(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, GetIdentity(c).Username())
	})
	router.GET("/index.html", PageSessionRequired(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "page")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != LoginPagePath {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	token, _, err := IssueSessionToken(cfg, "admin", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "admin" {
		t.Fatalf("expected 200 admin, got %d %q", rec.Code, rec.Body.String())
	}
}
