// Package history provides the quotation history module: a capped list of
// recently generated quotations and their archived documents.
package history

import (
	"github.com/ASEODA/narashop-estimate/internal/history/handler"
	"github.com/ASEODA/narashop-estimate/internal/history/repository"
	"github.com/ASEODA/narashop-estimate/internal/history/service"
	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/platform/events"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

// Module is the history bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	recorder *service.Recorder
}

// NewModule wires the history store and subscribes the recorder to
// generated-estimate events.
func NewModule(store repository.Store, limit int, eventBus *events.InMemoryBus, log *logger.Logger) *Module {
	svc := service.New(store, limit)
	recorder := service.NewRecorder(store, log)
	if eventBus != nil {
		recorder.Subscribe(eventBus)
	}
	return &Module{
		handler:  handler.New(svc),
		service:  svc,
		recorder: recorder,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "history"
}

// Service returns the read side for wiring document downloads.
func (m *Module) Service() *service.Service {
	return m.service
}

// Recorder returns the event-driven write side.
func (m *Module) Recorder() *service.Recorder {
	return m.recorder
}

// RegisterRoutes mounts history routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/history", m.handler.List)
	ctx.Protected.GET("/history/:id/document", m.handler.Document)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
