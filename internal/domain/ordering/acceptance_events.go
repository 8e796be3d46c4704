package ordering

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeAcceptance = "Acceptance"

// Event type constants
const (
	EventTypeAcceptanceOpened    = "AcceptanceOpened"
	EventTypeAcceptanceCompleted = "AcceptanceCompleted"
)

// AcceptanceOpenedEvent is raised when a receiving record is opened
type AcceptanceOpenedEvent struct {
	shared.BaseDomainEvent
	AcceptanceID uuid.UUID `json:"acceptance_id"`
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	NodeID       uuid.UUID `json:"node_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
}

// NewAcceptanceOpenedEvent creates a new AcceptanceOpenedEvent
func NewAcceptanceOpenedEvent(acceptance *Acceptance) *AcceptanceOpenedEvent {
	return &AcceptanceOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAcceptanceOpened, AggregateTypeAcceptance, acceptance.ID),
		AcceptanceID:    acceptance.ID,
		OrderID:         acceptance.OrderID,
		OrderNumber:     acceptance.OrderNumber,
		NodeID:          acceptance.NodeID,
		SupplierID:      acceptance.SupplierID,
	}
}

// EventType returns the event type name
func (e *AcceptanceOpenedEvent) EventType() string {
	return EventTypeAcceptanceOpened
}

// AcceptanceLineInfo carries per-line results on completion events
type AcceptanceLineInfo struct {
	OrderItemID  uuid.UUID       `json:"order_item_id"`
	SKU          string          `json:"sku"`
	ExpectedQty  decimal.Decimal `json:"expected_qty"`
	AcceptedQty  decimal.Decimal `json:"accepted_qty"`
	RejectedQty  decimal.Decimal `json:"rejected_qty"`
	RejectReason string          `json:"reject_reason,omitempty"`
}

// AcceptanceCompletedEvent is raised when a receiving record is completed.
// The ordering service listens for this to accept or dispute the order.
type AcceptanceCompletedEvent struct {
	shared.BaseDomainEvent
	AcceptanceID  uuid.UUID            `json:"acceptance_id"`
	OrderID       uuid.UUID            `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	NodeID        uuid.UUID            `json:"node_id"`
	SupplierID    uuid.UUID            `json:"supplier_id"`
	HasRejections bool                 `json:"has_rejections"`
	Lines         []AcceptanceLineInfo `json:"lines"`
}

// NewAcceptanceCompletedEvent creates a new AcceptanceCompletedEvent
func NewAcceptanceCompletedEvent(acceptance *Acceptance) *AcceptanceCompletedEvent {
	lines := make([]AcceptanceLineInfo, len(acceptance.Lines))
	for i, line := range acceptance.Lines {
		lines[i] = AcceptanceLineInfo{
			OrderItemID:  line.OrderItemID,
			SKU:          line.SKU,
			ExpectedQty:  line.ExpectedQty,
			AcceptedQty:  line.AcceptedQty,
			RejectedQty:  line.RejectedQty,
			RejectReason: line.RejectReason,
		}
	}

	return &AcceptanceCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAcceptanceCompleted, AggregateTypeAcceptance, acceptance.ID),
		AcceptanceID:    acceptance.ID,
		OrderID:         acceptance.OrderID,
		OrderNumber:     acceptance.OrderNumber,
		NodeID:          acceptance.NodeID,
		SupplierID:      acceptance.SupplierID,
		HasRejections:   acceptance.HasRejections(),
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *AcceptanceCompletedEvent) EventType() string {
	return EventTypeAcceptanceCompleted
}
