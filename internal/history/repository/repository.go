// Package repository stores the capped, newest-first list of generated
// quotations. Three backends share one contract: memory, Redis and Postgres.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit caps the list when no limit is configured.
const DefaultLimit = 30

const msgEntryNotFound = "견적 이력을 찾을 수 없습니다."

// Entry summarizes one generated quotation. Request holds the original
// request body so the quotation can be rebuilt.
type Entry struct {
	ID           uuid.UUID       `json:"id"`
	CreatedAt    time.Time       `json:"timestamp"`
	CustomerName string          `json:"customerName"`
	ProjectName  string          `json:"projectName"`
	TotalAmount  int64           `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
	Filename     string          `json:"filename"`
	DocumentKey  string          `json:"documentKey,omitempty"`
	Request      json.RawMessage `json:"request,omitempty"`
}

// Store is the history contract. Append keeps at most the configured
// number of entries; Recent returns newest first.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Find(ctx context.Context, id uuid.UUID) (Entry, error)
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	return limit
}
