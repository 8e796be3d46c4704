package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusDraft        ProductStatus = "DRAFT"
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Visibility controls who can see and order a product's SKU
type Visibility string

const (
	// VisibilityPrivate restricts the SKU to customers the supplier has
	// explicitly shared it with.
	VisibilityPrivate Visibility = "PRIVATE"
	// VisibilityPublic makes the SKU orderable by any active business unit.
	VisibilityPublic Visibility = "PUBLIC"
)

// IsValid checks if the visibility is valid
func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]{1,49}$`)

// Product represents a supplier-owned product aggregate root.
// The SKU is unique per supplier, not globally; the platform addresses a
// product by (supplier, SKU) or by its ID.
type Product struct {
	shared.BaseAggregateRoot
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_supplier_sku,unique"`
	SKU         string          `gorm:"not null;size:50;index:idx_products_supplier_sku,unique"`
	Name        string          `gorm:"not null;size:200"`
	Description string          `gorm:"size:2000"`
	Unit        string          `gorm:"not null;size:20"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      ProductStatus   `gorm:"not null;size:20;index"`
	Visibility  Visibility      `gorm:"not null;size:20;index"`
	Category    string          `gorm:"size:100;index"`
	Barcode     string          `gorm:"size:100"`
	ImageKey    string          `gorm:"size:500"`

	ActivatedAt    *time.Time
	DiscontinuedAt *time.Time
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new draft product for a supplier.
// New products start private; going public or sharing with specific
// customers is an explicit step.
func NewProduct(supplierID uuid.UUID, sku, name, unit string, unitPrice valueobject.Money) (*Product, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if !skuPattern.MatchString(sku) {
		return nil, shared.NewDomainError("INVALID_SKU",
			"SKU must be 2-50 characters of uppercase letters, digits, dot, dash or underscore")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		UnitPrice:         unitPrice.Amount(),
		Status:            ProductStatusDraft,
		Visibility:        VisibilityPrivate,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// UpdateDetails updates the descriptive fields of the product
func (p *Product) UpdateDetails(name, description, category, barcode string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}

	p.Name = name
	p.Description = description
	p.Category = category
	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// UpdatePrice sets a new unit price.
// Existing orders keep the price captured at submission.
func (p *Product) UpdatePrice(unitPrice valueobject.Money) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Cannot reprice a discontinued product")
	}

	old := p.UnitPrice
	p.UnitPrice = unitPrice.Amount()
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProductPriceChangedEvent(p, old))

	return nil
}

// SetImageKey sets the object storage key for the product image
func (p *Product) SetImageKey(key string) {
	p.ImageKey = key
	p.UpdatedAt = time.Now()
}

// Activate makes the product orderable
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Discontinued products cannot be reactivated")
	}

	now := time.Now()
	p.Status = ProductStatusActive
	p.ActivatedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewProductActivatedEvent(p))

	return nil
}

// Discontinue permanently removes the product from sale.
// Open orders for the product are not affected.
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Product is already discontinued")
	}

	now := time.Now()
	p.Status = ProductStatusDiscontinued
	p.DiscontinuedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewProductDiscontinuedEvent(p))

	return nil
}

// MakePublic opens the SKU to all customers
func (p *Product) MakePublic() error {
	if p.Visibility == VisibilityPublic {
		return shared.NewDomainError("INVALID_STATE", "Product is already public")
	}

	p.Visibility = VisibilityPublic
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProductVisibilityChangedEvent(p))

	return nil
}

// MakePrivate restricts the SKU to explicitly shared customers again.
// Existing share grants stay in force.
func (p *Product) MakePrivate() error {
	if p.Visibility == VisibilityPrivate {
		return shared.NewDomainError("INVALID_STATE", "Product is already private")
	}

	p.Visibility = VisibilityPrivate
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProductVisibilityChangedEvent(p))

	return nil
}

// IsOrderable returns true if the product can appear on new orders
func (p *Product) IsOrderable() bool {
	return p.Status == ProductStatusActive
}

// UnitPriceMoney returns the unit price as a Money value object
func (p *Product) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.UnitPrice)
}
