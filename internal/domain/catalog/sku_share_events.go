package catalog

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSkuShare = "SkuShare"

// Event type constants
const (
	EventTypeShareRequested = "SkuShareRequested"
	EventTypeShareApproved  = "SkuShareApproved"
	EventTypeShareRejected  = "SkuShareRejected"
	EventTypeShareCancelled = "SkuShareCancelled"
	EventTypeShareRevoked   = "SkuShareRevoked"
	EventTypeShareJoined    = "SkuShareJoined"
	EventTypeShareLeft      = "SkuShareLeft"
)

// ShareRequestedEvent is raised when a supplier offers a SKU to a customer.
// Notification listens for this to alert the target node's administrators.
type ShareRequestedEvent struct {
	shared.BaseDomainEvent
	ShareID      uuid.UUID `json:"share_id"`
	ProductID    uuid.UUID `json:"product_id"`
	SKU          string    `json:"sku"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	TargetNodeID uuid.UUID `json:"target_node_id"`
}

// NewShareRequestedEvent creates a new ShareRequestedEvent
func NewShareRequestedEvent(share *SkuShare) *ShareRequestedEvent {
	return &ShareRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareRequested, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		ProductID:       share.ProductID,
		SKU:             share.SKU,
		SupplierID:      share.SupplierID,
		TargetNodeID:    share.TargetNodeID,
	}
}

// EventType returns the event type name
func (e *ShareRequestedEvent) EventType() string {
	return EventTypeShareRequested
}

// ShareApprovedEvent is raised when the target node accepts a share
type ShareApprovedEvent struct {
	shared.BaseDomainEvent
	ShareID      uuid.UUID `json:"share_id"`
	ProductID    uuid.UUID `json:"product_id"`
	SKU          string    `json:"sku"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	TargetNodeID uuid.UUID `json:"target_node_id"`
}

// NewShareApprovedEvent creates a new ShareApprovedEvent
func NewShareApprovedEvent(share *SkuShare) *ShareApprovedEvent {
	return &ShareApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareApproved, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		ProductID:       share.ProductID,
		SKU:             share.SKU,
		SupplierID:      share.SupplierID,
		TargetNodeID:    share.TargetNodeID,
	}
}

// EventType returns the event type name
func (e *ShareApprovedEvent) EventType() string {
	return EventTypeShareApproved
}

// ShareRejectedEvent is raised when the target node declines a share
type ShareRejectedEvent struct {
	shared.BaseDomainEvent
	ShareID    uuid.UUID `json:"share_id"`
	SKU        string    `json:"sku"`
	SupplierID uuid.UUID `json:"supplier_id"`
	Note       string    `json:"note"`
}

// NewShareRejectedEvent creates a new ShareRejectedEvent
func NewShareRejectedEvent(share *SkuShare) *ShareRejectedEvent {
	return &ShareRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareRejected, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		SKU:             share.SKU,
		SupplierID:      share.SupplierID,
		Note:            share.DecisionNote,
	}
}

// EventType returns the event type name
func (e *ShareRejectedEvent) EventType() string {
	return EventTypeShareRejected
}

// ShareCancelledEvent is raised when the supplier withdraws a pending share
type ShareCancelledEvent struct {
	shared.BaseDomainEvent
	ShareID      uuid.UUID `json:"share_id"`
	SKU          string    `json:"sku"`
	TargetNodeID uuid.UUID `json:"target_node_id"`
}

// NewShareCancelledEvent creates a new ShareCancelledEvent
func NewShareCancelledEvent(share *SkuShare) *ShareCancelledEvent {
	return &ShareCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareCancelled, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		SKU:             share.SKU,
		TargetNodeID:    share.TargetNodeID,
	}
}

// EventType returns the event type name
func (e *ShareCancelledEvent) EventType() string {
	return EventTypeShareCancelled
}

// ShareRevokedEvent is raised when an approved share is withdrawn
type ShareRevokedEvent struct {
	shared.BaseDomainEvent
	ShareID      uuid.UUID `json:"share_id"`
	SKU          string    `json:"sku"`
	TargetNodeID uuid.UUID `json:"target_node_id"`
	Reason       string    `json:"reason"`
}

// NewShareRevokedEvent creates a new ShareRevokedEvent
func NewShareRevokedEvent(share *SkuShare, reason string) *ShareRevokedEvent {
	return &ShareRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareRevoked, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		SKU:             share.SKU,
		TargetNodeID:    share.TargetNodeID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *ShareRevokedEvent) EventType() string {
	return EventTypeShareRevoked
}

// ShareJoinedEvent is raised when a business unit joins a share
type ShareJoinedEvent struct {
	shared.BaseDomainEvent
	ShareID uuid.UUID `json:"share_id"`
	SKU     string    `json:"sku"`
	NodeID  uuid.UUID `json:"node_id"`
}

// NewShareJoinedEvent creates a new ShareJoinedEvent
func NewShareJoinedEvent(share *SkuShare, nodeID uuid.UUID) *ShareJoinedEvent {
	return &ShareJoinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareJoined, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		SKU:             share.SKU,
		NodeID:          nodeID,
	}
}

// EventType returns the event type name
func (e *ShareJoinedEvent) EventType() string {
	return EventTypeShareJoined
}

// ShareLeftEvent is raised when a business unit leaves a share
type ShareLeftEvent struct {
	shared.BaseDomainEvent
	ShareID uuid.UUID `json:"share_id"`
	SKU     string    `json:"sku"`
	NodeID  uuid.UUID `json:"node_id"`
}

// NewShareLeftEvent creates a new ShareLeftEvent
func NewShareLeftEvent(share *SkuShare, nodeID uuid.UUID) *ShareLeftEvent {
	return &ShareLeftEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShareLeft, AggregateTypeSkuShare, share.ID),
		ShareID:         share.ID,
		SKU:             share.SKU,
		NodeID:          nodeID,
	}
}

// EventType returns the event type name
func (e *ShareLeftEvent) EventType() string {
	return EventTypeShareLeft
}
