// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"encoding/json"

	"github.com/ASEODA/narashop-estimate/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Estimate Domain Events
// =============================================================================

// EstimateGenerated is published once a quotation document has been
// serialized and handed to the transport layer.
type EstimateGenerated struct {
	BaseEvent
	EstimateID   uuid.UUID       `json:"estimateId"`
	Username     string          `json:"username,omitempty"`
	CustomerName string          `json:"customerName"`
	ProjectName  string          `json:"projectName"`
	TotalAmount  int64           `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
	Filename     string          `json:"filename"`
	Request      json.RawMessage `json:"request,omitempty"`
	Document     []byte          `json:"-"`
}

func (e EstimateGenerated) EventName() string { return "estimates.estimate.generated" }
