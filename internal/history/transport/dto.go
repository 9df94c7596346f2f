package transport

import (
	"encoding/json"
	"time"

	"github.com/ASEODA/narashop-estimate/internal/history/repository"

	"github.com/google/uuid"
)

// ── Responses ─────────────────────────────────────────────────────────────────

// HistoryEntryResponse is one element of GET /api/history. Products and
// CustomerInfo echo the original request so the client can restore it.
type HistoryEntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	CustomerName string          `json:"customerName"`
	ProjectName  string          `json:"projectName"`
	TotalAmount  int64           `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
	Filename     string          `json:"filename,omitempty"`
	HasDocument  bool            `json:"hasDocument"`
	Products     json.RawMessage `json:"products,omitempty"`
	CustomerInfo json.RawMessage `json:"customerInfo,omitempty"`
}

// ToResponse flattens an entry for the client.
func ToResponse(e repository.Entry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		ID:           e.ID,
		Timestamp:    e.CreatedAt,
		CustomerName: e.CustomerName,
		ProjectName:  e.ProjectName,
		TotalAmount:  e.TotalAmount,
		ItemCount:    e.ItemCount,
		Filename:     e.Filename,
		HasDocument:  e.DocumentKey != "",
	}

	if len(e.Request) > 0 {
		var req struct {
			Products     json.RawMessage `json:"products"`
			CustomerInfo json.RawMessage `json:"customerInfo"`
		}
		if err := json.Unmarshal(e.Request, &req); err == nil {
			resp.Products = nullToEmpty(req.Products)
			resp.CustomerInfo = nullToEmpty(req.CustomerInfo)
		}
	}
	return resp
}

func nullToEmpty(raw json.RawMessage) json.RawMessage {
	if string(raw) == "null" {
		return nil
	}
	return raw
}
