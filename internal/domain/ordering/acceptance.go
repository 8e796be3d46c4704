package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AcceptanceStatus represents the status of a receiving record
type AcceptanceStatus string

const (
	AcceptanceStatusOpen      AcceptanceStatus = "OPEN"
	AcceptanceStatusCompleted AcceptanceStatus = "COMPLETED"
)

// AcceptanceLine records the received quantities for one order line.
// AcceptedQty plus RejectedQty may be less than ExpectedQty when goods
// are missing; the shortfall counts as rejected for dispute purposes.
type AcceptanceLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AcceptanceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID  uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	SKU          string          `gorm:"not null;size:50"`
	ExpectedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AcceptedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RejectedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RejectReason string          `gorm:"size:500"`
	Recorded     bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the database table name
func (AcceptanceLine) TableName() string {
	return "acceptance_lines"
}

// AcceptancePhoto is an evidence photo attached to a receiving record.
// ObjectKey points at the stored object; the file itself lives in object
// storage.
type AcceptancePhoto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	AcceptanceID uuid.UUID `gorm:"type:uuid;not null;index"`
	ObjectKey    string    `gorm:"not null;size:500"`
	ContentType  string    `gorm:"size:100"`
	UploadedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
}

// TableName returns the database table name
func (AcceptancePhoto) TableName() string {
	return "acceptance_photos"
}

// Acceptance is the receiving record opened when an order is delivered.
// The customer records per-line accepted and rejected quantities, attaches
// evidence photos, and completes the record. Completion drives the order
// to accepted or disputed.
type Acceptance struct {
	shared.BaseAggregateRoot
	OrderID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber string           `gorm:"not null;size:50"`
	NodeID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	SupplierID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status      AcceptanceStatus `gorm:"not null;size:20;index"`

	Lines  []AcceptanceLine  `gorm:"foreignKey:AcceptanceID"`
	Photos []AcceptancePhoto `gorm:"foreignKey:AcceptanceID"`

	CompletedBy *uuid.UUID `gorm:"type:uuid"`
	CompletedAt *time.Time
	Note        string `gorm:"size:500"`
}

// TableName returns the database table name
func (Acceptance) TableName() string {
	return "acceptances"
}

// ExpectedLine describes one order line the acceptance must cover
type ExpectedLine struct {
	OrderItemID uuid.UUID
	ProductID   uuid.UUID
	SKU         string
	ExpectedQty decimal.Decimal
}

// NewAcceptance opens a receiving record for a delivered order
func NewAcceptance(orderID uuid.UUID, orderNumber string, nodeID, supplierID uuid.UUID, expected []ExpectedLine) (*Acceptance, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if len(expected) == 0 {
		return nil, shared.NewDomainError("INVALID_LINES", "Acceptance must cover at least one order line")
	}

	acceptance := &Acceptance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		NodeID:            nodeID,
		SupplierID:        supplierID,
		Status:            AcceptanceStatusOpen,
		Lines:             make([]AcceptanceLine, 0, len(expected)),
		Photos:            make([]AcceptancePhoto, 0),
	}

	now := time.Now()
	for _, exp := range expected {
		acceptance.Lines = append(acceptance.Lines, AcceptanceLine{
			ID:           uuid.New(),
			AcceptanceID: acceptance.ID,
			OrderItemID:  exp.OrderItemID,
			ProductID:    exp.ProductID,
			SKU:          exp.SKU,
			ExpectedQty:  exp.ExpectedQty,
			AcceptedQty:  decimal.Zero,
			RejectedQty:  decimal.Zero,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	acceptance.AddDomainEvent(NewAcceptanceOpenedEvent(acceptance))

	return acceptance, nil
}

// RecordLine records received quantities for one order line.
// Re-recording an already recorded line overwrites the previous entry
// while the record is still open.
func (a *Acceptance) RecordLine(orderItemID uuid.UUID, acceptedQty, rejectedQty decimal.Decimal, rejectReason string) error {
	if a.Status != AcceptanceStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Acceptance record is already completed")
	}
	if acceptedQty.IsNegative() || rejectedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if rejectedQty.GreaterThan(decimal.Zero) && rejectReason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required when rejecting goods")
	}

	for i := range a.Lines {
		if a.Lines[i].OrderItemID == orderItemID {
			if acceptedQty.Add(rejectedQty).GreaterThan(a.Lines[i].ExpectedQty) {
				return shared.NewDomainError("INVALID_QUANTITY", "Accepted plus rejected cannot exceed the expected quantity")
			}

			a.Lines[i].AcceptedQty = acceptedQty
			a.Lines[i].RejectedQty = rejectedQty
			a.Lines[i].RejectReason = rejectReason
			a.Lines[i].Recorded = true
			a.Lines[i].UpdatedAt = time.Now()
			a.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "No acceptance line for this order item")
}

// AddPhoto attaches an evidence photo to the record
func (a *Acceptance) AddPhoto(objectKey, contentType string, uploadedBy uuid.UUID) (*AcceptancePhoto, error) {
	if a.Status != AcceptanceStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Acceptance record is already completed")
	}
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_PHOTO", "Object key cannot be empty")
	}

	photo := AcceptancePhoto{
		ID:           uuid.New(),
		AcceptanceID: a.ID,
		ObjectKey:    objectKey,
		ContentType:  contentType,
		UploadedBy:   uploadedBy,
		CreatedAt:    time.Now(),
	}
	a.Photos = append(a.Photos, photo)
	a.UpdatedAt = time.Now()

	return &a.Photos[len(a.Photos)-1], nil
}

// Complete finalizes the receiving record. Every line must be recorded.
func (a *Acceptance) Complete(completedBy uuid.UUID, note string) error {
	if a.Status != AcceptanceStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Acceptance record is already completed")
	}
	for i := range a.Lines {
		if !a.Lines[i].Recorded {
			return shared.NewDomainError("INCOMPLETE_RECORD", "All lines must be recorded before completion")
		}
	}

	now := time.Now()
	a.Status = AcceptanceStatusCompleted
	a.CompletedBy = &completedBy
	a.CompletedAt = &now
	a.Note = note
	a.UpdatedAt = now
	a.AddDomainEvent(NewAcceptanceCompletedEvent(a))

	return nil
}

// HasRejections returns true if any line has rejected goods or a shortfall
func (a *Acceptance) HasRejections() bool {
	for i := range a.Lines {
		line := &a.Lines[i]
		if line.RejectedQty.GreaterThan(decimal.Zero) {
			return true
		}
		if line.Recorded && line.AcceptedQty.LessThan(line.ExpectedQty) {
			return true
		}
	}
	return false
}

// AcceptedTotal returns the sum of accepted quantities across lines
func (a *Acceptance) AcceptedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range a.Lines {
		total = total.Add(a.Lines[i].AcceptedQty)
	}
	return total
}
