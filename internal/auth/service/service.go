// Package service authenticates against the fixed user table and issues
// session tokens.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"
	"github.com/ASEODA/narashop-estimate/platform/logger"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 올바르지 않습니다.")

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3Z5Vt2Fz0kJd6.Qz3Z8Y1Pe")

// Session is an issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	cfg config.AuthConfig
	log *logger.Logger
	now func() time.Time
}

func New(cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log, now: time.Now}
}

// Login checks username/password against the configured bcrypt hashes.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	hash, known := s.cfg.GetAuthUsers()[username]
	if !known {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.log.WithContext(ctx).AuthEvent("login", username, false, "unknown user")
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.log.WithContext(ctx).AuthEvent("login", username, false, "password mismatch")
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := httpkit.IssueSessionToken(s.cfg, username, s.now())
	if err != nil {
		return Session{}, err
	}
	s.log.WithContext(ctx).AuthEvent("login", username, true, "")
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout records the sign-out. Sessions are stateless, so clearing the cookie
// is the whole effect.
func (s *Service) Logout(ctx context.Context, username string) {
	s.log.WithContext(ctx).AuthEvent("logout", username, true, "")
}
