// Package catalog provides the catalog bounded context module: lookups
// against the public procurement product API and payload normalization.
package catalog

import (
	"github.com/ASEODA/narashop-estimate/internal/catalog/client"
	"github.com/ASEODA/narashop-estimate/internal/catalog/handler"
	"github.com/ASEODA/narashop-estimate/internal/catalog/service"
	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module.
func NewModule(cfg config.CatalogConfig, log *logger.Logger) *Module {
	svc := service.New(client.New(cfg, log), log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for the quotation resolver.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/lookup", m.handler.Lookup)
	// Legacy path still called by older front-end builds.
	ctx.Protected.GET("/product", m.handler.Lookup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
