package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusAccepted  OrderStatus = "ACCEPTED"
	OrderStatusDisputed  OrderStatus = "DISPUTED"
	OrderStatusClosed    OrderStatus = "CLOSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusAccepted, OrderStatusDisputed, OrderStatusClosed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusSubmitted || target == OrderStatusCancelled
	case OrderStatusSubmitted:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusAccepted || target == OrderStatusDisputed
	case OrderStatusAccepted:
		return target == OrderStatusClosed
	case OrderStatusDisputed:
		return target == OrderStatusClosed
	case OrderStatusClosed, OrderStatusCancelled:
		return false
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCancelled
}

// OrderItem represents a line item on an order. Unit price is captured at
// submission time; later catalog repricing does not touch open orders.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	SKU         string          `gorm:"not null;size:50"`
	ProductName string          `gorm:"not null;size:200"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"not null;size:20"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark      string          `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, sku, productName, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		SKU:         sku,
		ProductName: productName,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *OrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// Order represents an order placed by a customer business unit with a
// single supplier. It is the aggregate root of the ordering context.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string      `gorm:"not null;size:50;uniqueIndex"`
	NodeID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	SupplierID  uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status      OrderStatus `gorm:"not null;size:20;index"`
	Items       []OrderItem `gorm:"foreignKey:OrderID"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	RequestedDeliveryDate *time.Time
	DeliveryAddress       string `gorm:"size:500"`
	Remark                string `gorm:"size:500"`

	SubmittedAt   *time.Time
	ConfirmedAt   *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time
	AcceptedAt    *time.Time
	DisputedAt    *time.Time
	ClosedAt      *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"size:500"`
	DisputeReason string `gorm:"size:500"`
	TrackingRef   string `gorm:"size:100"`
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new draft order for a business unit and supplier
func NewOrder(orderNumber string, nodeID, supplierID uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if nodeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_NODE", "Node ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		NodeID:            nodeID,
		SupplierID:        supplierID,
		Status:            OrderStatusDraft,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item to a draft order. Adding the same product twice
// is rejected; update the quantity instead.
func (o *Order) AddItem(productID uuid.UUID, sku, productName, unit string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Items can only be added to draft orders")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already on order, update quantity instead")
		}
	}

	item, err := NewOrderItem(o.ID, productID, sku, productName, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of a line on a draft order
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Items can only be changed on draft orders")
	}

	for i := range o.Items {
		if o.Items[i].ID == itemID {
			if err := o.Items[i].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line from a draft order
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Items can only be removed from draft orders")
	}

	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

// SetDeliveryDetails sets the requested delivery date and address
func (o *Order) SetDeliveryDetails(date *time.Time, address string) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Delivery details can only be changed on draft orders")
	}
	if date != nil && date.Before(time.Now().Truncate(24*time.Hour)) {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Requested delivery date cannot be in the past")
	}

	o.RequestedDeliveryDate = date
	o.DeliveryAddress = address
	o.UpdatedAt = time.Now()

	return nil
}

// Submit sends the draft order to the supplier
func (o *Order) Submit() error {
	if !o.Status.CanTransitionTo(OrderStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be submitted from status "+o.Status.String())
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}

	now := time.Now()
	o.Status = OrderStatusSubmitted
	o.SubmittedAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderSubmittedEvent(o))

	return nil
}

// Confirm records the supplier's acceptance of the order
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed from status "+o.Status.String())
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// Ship records the supplier's shipment with an optional tracking reference
func (o *Order) Ship(trackingRef string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be shipped from status "+o.Status.String())
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.TrackingRef = trackingRef
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered records delivery at the customer site.
// Delivery starts the acceptance window.
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be delivered from status "+o.Status.String())
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Accept records the customer's acceptance of the delivered goods
func (o *Order) Accept() error {
	if !o.Status.CanTransitionTo(OrderStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be accepted from status "+o.Status.String())
	}

	now := time.Now()
	o.Status = OrderStatusAccepted
	o.AcceptedAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderAcceptedEvent(o))

	return nil
}

// Dispute flags a delivered order for resolution
func (o *Order) Dispute(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusDisputed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be disputed from status "+o.Status.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Dispute reason cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusDisputed
	o.DisputedAt = &now
	o.DisputeReason = reason
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderDisputedEvent(o, reason))

	return nil
}

// Close finalizes an accepted or resolved-disputed order.
// Closing makes the order eligible for billing settlement.
func (o *Order) Close() error {
	if !o.Status.CanTransitionTo(OrderStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be closed from status "+o.Status.String())
	}

	now := time.Now()
	o.Status = OrderStatusClosed
	o.ClosedAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderClosedEvent(o))

	return nil
}

// Cancel cancels the order before shipment
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled from status "+o.Status.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}
