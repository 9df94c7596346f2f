package handler

import (
	"net/http"

	"github.com/ASEODA/narashop-estimate/internal/catalog/service"
	"github.com/ASEODA/narashop-estimate/internal/catalog/transport"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for catalog lookups.
type Handler struct {
	svc *service.Service
}

// New creates a new catalog handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Lookup passes a single catalog lookup through to the upstream API.
// GET /api/lookup?catalogId=...
func (h *Handler) Lookup(c *gin.Context) {
	var req transport.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "잘못된 요청입니다.", nil)
		return
	}

	raw, err := h.svc.Lookup(c.Request.Context(), req.ID())
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
