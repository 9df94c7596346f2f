// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"github.com/ASEODA/narashop-estimate/internal/auth/handler"
	"github.com/ASEODA/narashop-estimate/internal/auth/service"
	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/logger"
	"github.com/ASEODA/narashop-estimate/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(cfg config.AuthConfig, log *logger.Logger, val *validator.Validator) *Module {
	svc := service.New(cfg, log)
	h := handler.New(svc, cfg, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)
	ctx.API.POST("/logout", m.handler.Logout)
	ctx.API.GET("/session", m.handler.Session)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
