package handler

import (
	"net/http"

	"github.com/ASEODA/narashop-estimate/internal/history/service"
	"github.com/ASEODA/narashop-estimate/internal/history/transport"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidID = "잘못된 이력 번호입니다."

// Handler handles HTTP requests for quotation history.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/history. The body is a bare JSON array, newest first.
func (h *Handler) List(c *gin.Context) {
	entries, err := h.svc.Recent(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, transport.ToResponse(e))
	}
	httpkit.OK(c, resp)
}

// Document handles GET /api/history/:id/document.
func (h *Handler) Document(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	url, err := h.svc.DocumentURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, url)
}
