package partner

import (
	"net/mail"
	"time"

	"github.com/orderhub/backend/internal/domain/shared"
)

// SupplierStatus represents the lifecycle status of a supplier
type SupplierStatus string

const (
	SupplierStatusPending    SupplierStatus = "PENDING"
	SupplierStatusActive     SupplierStatus = "ACTIVE"
	SupplierStatusBlocked    SupplierStatus = "BLOCKED"
	SupplierStatusOffboarded SupplierStatus = "OFFBOARDED"
)

// IsValid checks if the status is a valid SupplierStatus
func (s SupplierStatus) IsValid() bool {
	switch s {
	case SupplierStatusPending, SupplierStatusActive, SupplierStatusBlocked, SupplierStatusOffboarded:
		return true
	}
	return false
}

// String returns the string representation of SupplierStatus
func (s SupplierStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SupplierStatus) CanTransitionTo(target SupplierStatus) bool {
	switch s {
	case SupplierStatusPending:
		return target == SupplierStatusActive || target == SupplierStatusOffboarded
	case SupplierStatusActive:
		return target == SupplierStatusBlocked || target == SupplierStatusOffboarded
	case SupplierStatusBlocked:
		return target == SupplierStatusActive || target == SupplierStatusOffboarded
	case SupplierStatusOffboarded:
		return false
	}
	return false
}

// Supplier represents a supplier aggregate root. Suppliers own products in
// the catalog and fulfill orders placed by customer business units.
type Supplier struct {
	shared.BaseAggregateRoot
	Name         string         `gorm:"not null;size:200"`
	Code         string         `gorm:"not null;size:50;uniqueIndex"`
	Status       SupplierStatus `gorm:"not null;size:20;index"`
	ContactName  string         `gorm:"size:100"`
	ContactEmail string         `gorm:"size:200"`
	ContactPhone string         `gorm:"size:50"`
	Address      string         `gorm:"size:500"`
	LeadTimeDays int            `gorm:"not null;default:3"`
	MinOrderQty  int            `gorm:"not null;default:1"`
	Remark       string         `gorm:"size:500"`
	ActivatedAt  *time.Time
	BlockedAt    *time.Time
	BlockReason  string `gorm:"size:500"`
	OffboardedAt *time.Time
}

// TableName returns the database table name
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier in pending status
func NewSupplier(name, code, contactEmail string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if contactEmail != "" {
		if _, err := mail.ParseAddress(contactEmail); err != nil {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Contact email is not a valid address")
		}
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Status:            SupplierStatusPending,
		ContactEmail:      contactEmail,
		LeadTimeDays:      3,
		MinOrderQty:       1,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// UpdateContact updates the supplier contact information
func (s *Supplier) UpdateContact(name, email, phone, address string) error {
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Contact email is not a valid address")
		}
	}

	s.ContactName = name
	s.ContactEmail = email
	s.ContactPhone = phone
	s.Address = address
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// UpdateFulfillmentTerms updates lead time and minimum order quantity
func (s *Supplier) UpdateFulfillmentTerms(leadTimeDays, minOrderQty int) error {
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	if minOrderQty < 1 {
		return shared.NewDomainError("INVALID_MIN_ORDER_QTY", "Minimum order quantity must be at least 1")
	}

	s.LeadTimeDays = leadTimeDays
	s.MinOrderQty = minOrderQty
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// Activate moves the supplier to active status
func (s *Supplier) Activate() error {
	if !s.Status.CanTransitionTo(SupplierStatusActive) {
		return shared.NewDomainError("INVALID_STATE", "Supplier cannot be activated from status "+s.Status.String())
	}

	now := time.Now()
	s.Status = SupplierStatusActive
	s.ActivatedAt = &now
	s.BlockedAt = nil
	s.BlockReason = ""
	s.UpdatedAt = now
	s.AddDomainEvent(NewSupplierActivatedEvent(s))

	return nil
}

// Block blocks the supplier from receiving new orders
func (s *Supplier) Block(reason string) error {
	if !s.Status.CanTransitionTo(SupplierStatusBlocked) {
		return shared.NewDomainError("INVALID_STATE", "Supplier cannot be blocked from status "+s.Status.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Block reason cannot be empty")
	}

	now := time.Now()
	s.Status = SupplierStatusBlocked
	s.BlockedAt = &now
	s.BlockReason = reason
	s.UpdatedAt = now
	s.AddDomainEvent(NewSupplierBlockedEvent(s, reason))

	return nil
}

// Offboard permanently removes the supplier from the platform.
// Offboarded suppliers keep their historical orders and billing records.
func (s *Supplier) Offboard() error {
	if !s.Status.CanTransitionTo(SupplierStatusOffboarded) {
		return shared.NewDomainError("INVALID_STATE", "Supplier cannot be offboarded from status "+s.Status.String())
	}

	now := time.Now()
	s.Status = SupplierStatusOffboarded
	s.OffboardedAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewSupplierOffboardedEvent(s))

	return nil
}

// CanReceiveOrders returns true if new orders may be routed to this supplier
func (s *Supplier) CanReceiveOrders() bool {
	return s.Status == SupplierStatusActive
}

// SetRemark sets the remark for the supplier
func (s *Supplier) SetRemark(remark string) {
	s.Remark = remark
	s.UpdatedAt = time.Now()
}
