// Package quotes provides the quotation (견적서) document module.
package quotes

import (
	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/internal/quotes/handler"
	"github.com/ASEODA/narashop-estimate/internal/quotes/service"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/events"
	"github.com/ASEODA/narashop-estimate/platform/logger"
	"github.com/ASEODA/narashop-estimate/platform/validator"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired.
func NewModule(svc *service.Service, eventBus *events.InMemoryBus, val *validator.Validator) *Module {
	if eventBus != nil {
		svc.SetEventBus(eventBus)
	}
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// NewService assembles the quotation service. images may be nil, in which
// case documents carry no product pictures.
func NewService(catalog service.CatalogResolver, images service.ImageFetcher, issuer config.CompanyProfile, log *logger.Logger) *service.Service {
	return service.New(service.NewResolver(catalog, images, log), issuer, log)
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/generate-estimate", m.handler.Generate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
