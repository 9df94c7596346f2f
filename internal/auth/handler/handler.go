package handler

import (
	"errors"
	"net/http"

	"github.com/ASEODA/narashop-estimate/internal/auth/service"
	"github.com/ASEODA/narashop-estimate/internal/auth/transport"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"
	"github.com/ASEODA/narashop-estimate/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	cfg config.SessionConfig
	val *validator.Validator
}

const (
	msgInvalidRequest   = "잘못된 요청입니다."
	msgValidationFailed = "아이디와 비밀번호를 입력해주세요."
)

func New(svc *service.Service, cfg config.SessionConfig, val *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, val: val}
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Describe(err))
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpkit.Error(c, http.StatusUnauthorized, err.Error(), nil)
		return
	}
	if err != nil {
		_ = c.Error(err)
		httpkit.Error(c, http.StatusInternalServerError, "로그인 처리 중 오류가 발생했습니다.", nil)
		return
	}

	httpkit.SetSessionCookie(c, h.cfg, session.Token, session.ExpiresAt)
	httpkit.OK(c, transport.SessionResponse{Authenticated: true, Username: req.Username})
}

func (h *Handler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cfg.GetSessionCookieName()); err == nil {
		if username, err := httpkit.ParseSessionToken(h.cfg, raw); err == nil {
			h.svc.Logout(c.Request.Context(), username)
		}
	}
	httpkit.ClearSessionCookie(c, h.cfg)
	httpkit.OK(c, gin.H{"message": "로그아웃 되었습니다."})
}

// Session reports whether the caller holds a valid session. It never fails
// with 401 so the login page can call it unconditionally.
func (h *Handler) Session(c *gin.Context) {
	raw, err := c.Cookie(h.cfg.GetSessionCookieName())
	if err != nil {
		httpkit.OK(c, transport.SessionResponse{})
		return
	}
	username, err := httpkit.ParseSessionToken(h.cfg, raw)
	if err != nil {
		httpkit.OK(c, transport.SessionResponse{})
		return
	}
	httpkit.OK(c, transport.SessionResponse{Authenticated: true, Username: username})
}
