package partner

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSupplier = "Supplier"

// Event type constants
const (
	EventTypeSupplierCreated    = "SupplierCreated"
	EventTypeSupplierUpdated    = "SupplierUpdated"
	EventTypeSupplierActivated  = "SupplierActivated"
	EventTypeSupplierBlocked    = "SupplierBlocked"
	EventTypeSupplierOffboarded = "SupplierOffboarded"
)

// SupplierCreatedEvent is raised when a new supplier is registered
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
		Code:            supplier.Code,
	}
}

// EventType returns the event type name
func (e *SupplierCreatedEvent) EventType() string {
	return EventTypeSupplierCreated
}

// SupplierUpdatedEvent is raised when supplier contact or terms change
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	SupplierID   uuid.UUID `json:"supplier_id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	LeadTimeDays int       `json:"lead_time_days"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(supplier *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, supplier.ID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
		ContactEmail:    supplier.ContactEmail,
		LeadTimeDays:    supplier.LeadTimeDays,
	}
}

// EventType returns the event type name
func (e *SupplierUpdatedEvent) EventType() string {
	return EventTypeSupplierUpdated
}

// SupplierActivatedEvent is raised when a supplier becomes active
type SupplierActivatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
}

// NewSupplierActivatedEvent creates a new SupplierActivatedEvent
func NewSupplierActivatedEvent(supplier *Supplier) *SupplierActivatedEvent {
	return &SupplierActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierActivated, AggregateTypeSupplier, supplier.ID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
	}
}

// EventType returns the event type name
func (e *SupplierActivatedEvent) EventType() string {
	return EventTypeSupplierActivated
}

// SupplierBlockedEvent is raised when a supplier is blocked.
// The ordering context listens for this to reject new orders.
type SupplierBlockedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	Reason     string    `json:"reason"`
}

// NewSupplierBlockedEvent creates a new SupplierBlockedEvent
func NewSupplierBlockedEvent(supplier *Supplier, reason string) *SupplierBlockedEvent {
	return &SupplierBlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierBlocked, AggregateTypeSupplier, supplier.ID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *SupplierBlockedEvent) EventType() string {
	return EventTypeSupplierBlocked
}

// SupplierOffboardedEvent is raised when a supplier leaves the platform
type SupplierOffboardedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
}

// NewSupplierOffboardedEvent creates a new SupplierOffboardedEvent
func NewSupplierOffboardedEvent(supplier *Supplier) *SupplierOffboardedEvent {
	return &SupplierOffboardedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierOffboarded, AggregateTypeSupplier, supplier.ID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
	}
}

// EventType returns the event type name
func (e *SupplierOffboardedEvent) EventType() string {
	return EventTypeSupplierOffboarded
}
