package httpkit

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ASEODA/narashop-estimate/platform/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	errUnauthorized = "인증이 필요합니다."
	sessionIssuer   = "narashop-estimate"

	// LoginPagePath is where page navigation without a session is redirected.
	LoginPagePath = "/login.html"
)

// ErrInvalidSession is returned for a missing, expired or tampered session token.
var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the payload of the signed session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token for username valid for the
// configured TTL. It returns the token and its expiry.
func IssueSessionToken(cfg config.SessionConfig, username string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(cfg.GetSessionTTL())
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.GetSessionSecret()))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseSessionToken verifies rawToken and returns the username it was issued for.
func ParseSessionToken(cfg config.SessionConfig, rawToken string) (string, error) {
	if strings.TrimSpace(rawToken) == "" {
		return "", ErrInvalidSession
	}

	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.GetSessionSecret()), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(c *gin.Context, cfg config.SessionConfig, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(cfg.GetSessionCookieSameSite())
	c.SetCookie(cfg.GetSessionCookieName(), token, maxAge, "/", "", cfg.GetSessionCookieSecure(), true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetSameSite(cfg.GetSessionCookieSameSite())
	c.SetCookie(cfg.GetSessionCookieName(), "", -1, "/", "", cfg.GetSessionCookieSecure(), true)
}

// SessionRequired rejects API calls without a valid session cookie with 401.
func SessionRequired(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifySession(c, cfg) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: errUnauthorized})
			return
		}
		c.Next()
	}
}

// PageSessionRequired redirects page navigation without a valid session to
// the login page.
func PageSessionRequired(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifySession(c, cfg) {
			c.Redirect(http.StatusFound, LoginPagePath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func verifySession(c *gin.Context, cfg config.SessionConfig) bool {
	raw, err := c.Cookie(cfg.GetSessionCookieName())
	if err != nil {
		return false
	}
	username, err := ParseSessionToken(cfg, raw)
	if err != nil {
		return false
	}
	c.Set(ContextUsernameKey, username)
	return true
}
