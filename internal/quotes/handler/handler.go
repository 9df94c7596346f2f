package handler

import (
	"net/http"

	"github.com/ASEODA/narashop-estimate/internal/quotes/service"
	"github.com/ASEODA/narashop-estimate/internal/quotes/transport"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"
	"github.com/ASEODA/narashop-estimate/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgNoProducts       = "제품 정보를 입력해주세요."
	msgQuantityTooLarge = "수량은 1,000,000개 이하로 입력해주세요."
)

// Handler handles HTTP requests for quotation documents.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Generate handles POST /api/generate-estimate and answers with the XLSX
// document as an attachment.
func (h *Handler) Generate(c *gin.Context) {
	var req transport.GenerateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgNoProducts, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		msg := msgNoProducts
		if validator.HasFieldError(err, "Quantity") {
			msg = msgQuantityTooLarge
		}
		httpkit.Error(c, http.StatusBadRequest, msg, nil)
		return
	}

	identity := httpkit.GetIdentity(c)
	estimate, err := h.svc.Generate(c.Request.Context(), identity.Username(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	serveXLSXBytes(c, estimate.Filename, estimate.Content)
}
