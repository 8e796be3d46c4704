package catalog

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated           = "ProductCreated"
	EventTypeProductUpdated           = "ProductUpdated"
	EventTypeProductPriceChanged      = "ProductPriceChanged"
	EventTypeProductActivated         = "ProductActivated"
	EventTypeProductDiscontinued      = "ProductDiscontinued"
	EventTypeProductVisibilityChanged = "ProductVisibilityChanged"
)

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SupplierID:      product.SupplierID,
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// ProductUpdatedEvent is raised when product details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductUpdatedEvent) EventType() string {
	return EventTypeProductUpdated
}

// ProductPriceChangedEvent is raised when the unit price changes.
// Notification listens for this to alert participating customers.
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldPrice:        oldPrice,
		NewPrice:        product.UnitPrice,
	}
}

// EventType returns the event type name
func (e *ProductPriceChangedEvent) EventType() string {
	return EventTypeProductPriceChanged
}

// ProductActivatedEvent is raised when a product becomes orderable
type ProductActivatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	SKU        string    `json:"sku"`
}

// NewProductActivatedEvent creates a new ProductActivatedEvent
func NewProductActivatedEvent(product *Product) *ProductActivatedEvent {
	return &ProductActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductActivated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SupplierID:      product.SupplierID,
		SKU:             product.SKU,
	}
}

// EventType returns the event type name
func (e *ProductActivatedEvent) EventType() string {
	return EventTypeProductActivated
}

// ProductDiscontinuedEvent is raised when a product is taken off sale
type ProductDiscontinuedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	SKU        string    `json:"sku"`
}

// NewProductDiscontinuedEvent creates a new ProductDiscontinuedEvent
func NewProductDiscontinuedEvent(product *Product) *ProductDiscontinuedEvent {
	return &ProductDiscontinuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDiscontinued, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SupplierID:      product.SupplierID,
		SKU:             product.SKU,
	}
}

// EventType returns the event type name
func (e *ProductDiscontinuedEvent) EventType() string {
	return EventTypeProductDiscontinued
}

// ProductVisibilityChangedEvent is raised when a SKU flips between
// public and private
type ProductVisibilityChangedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID  `json:"product_id"`
	SKU        string     `json:"sku"`
	Visibility Visibility `json:"visibility"`
}

// NewProductVisibilityChangedEvent creates a new ProductVisibilityChangedEvent
func NewProductVisibilityChangedEvent(product *Product) *ProductVisibilityChangedEvent {
	return &ProductVisibilityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductVisibilityChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Visibility:      product.Visibility,
	}
}

// EventType returns the event type name
func (e *ProductVisibilityChangedEvent) EventType() string {
	return EventTypeProductVisibilityChanged
}
