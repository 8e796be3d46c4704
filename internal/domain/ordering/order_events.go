package ordering

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderSubmitted = "OrderSubmitted"
	EventTypeOrderConfirmed = "OrderConfirmed"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderDelivered = "OrderDelivered"
	EventTypeOrderAccepted  = "OrderAccepted"
	EventTypeOrderDisputed  = "OrderDisputed"
	EventTypeOrderClosed    = "OrderClosed"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderItemInfo carries line item data on order events
type OrderItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func itemInfos(order *Order) []OrderItemInfo {
	infos := make([]OrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		infos[i] = OrderItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return infos
}

// OrderCreatedEvent is raised when a draft order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	NodeID      uuid.UUID `json:"node_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderSubmittedEvent is raised when an order is sent to the supplier.
// Notification listens for this to alert the supplier.
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	NodeID      uuid.UUID       `json:"node_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Items       []OrderItemInfo `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(order *Order) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
		Items:           itemInfos(order),
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderSubmittedEvent) EventType() string {
	return EventTypeOrderSubmitted
}

// OrderConfirmedEvent is raised when the supplier confirms an order
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	NodeID      uuid.UUID `json:"node_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(order *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
	}
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderShippedEvent is raised when the supplier ships an order
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	NodeID      uuid.UUID `json:"node_id"`
	TrackingRef string    `json:"tracking_ref,omitempty"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		TrackingRef:     order.TrackingRef,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderDeliveredEvent is raised when goods arrive at the customer site.
// The acceptance context listens for this to open a receiving record.
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	NodeID      uuid.UUID       `json:"node_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Items       []OrderItemInfo `json:"items"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(order *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
		Items:           itemInfos(order),
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// OrderAcceptedEvent is raised when the customer accepts delivered goods
type OrderAcceptedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	NodeID      uuid.UUID       `json:"node_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderAcceptedEvent creates a new OrderAcceptedEvent
func NewOrderAcceptedEvent(order *Order) *OrderAcceptedEvent {
	return &OrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderAccepted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderAcceptedEvent) EventType() string {
	return EventTypeOrderAccepted
}

// OrderDisputedEvent is raised when a delivered order is disputed
type OrderDisputedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	NodeID      uuid.UUID `json:"node_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Reason      string    `json:"reason"`
}

// NewOrderDisputedEvent creates a new OrderDisputedEvent
func NewOrderDisputedEvent(order *Order, reason string) *OrderDisputedEvent {
	return &OrderDisputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDisputed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *OrderDisputedEvent) EventType() string {
	return EventTypeOrderDisputed
}

// OrderClosedEvent is raised when an order is finalized.
// Billing listens for this to record a settled transaction.
type OrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	NodeID      uuid.UUID       `json:"node_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderClosedEvent creates a new OrderClosedEvent
func NewOrderClosedEvent(order *Order) *OrderClosedEvent {
	return &OrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderClosed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderClosedEvent) EventType() string {
	return EventTypeOrderClosed
}

// OrderCancelledEvent is raised when an order is cancelled before shipment
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	NodeID      uuid.UUID `json:"node_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Reason      string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		NodeID:          order.NodeID,
		SupplierID:      order.SupplierID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
