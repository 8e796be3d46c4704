package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatementStatus represents the status of a settlement statement
type StatementStatus string

const (
	StatementStatusDraft     StatementStatus = "DRAFT"
	StatementStatusFinalized StatementStatus = "FINALIZED"
)

// Statement aggregates a supplier's settled transactions for one
// settlement period. The scheduler produces one draft statement per
// supplier per run and finalizes it after attaching all transactions.
type Statement struct {
	shared.BaseAggregateRoot
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_statements_supplier_period,unique"`
	PeriodStart time.Time       `gorm:"not null;index:idx_statements_supplier_period,unique"`
	PeriodEnd   time.Time       `gorm:"not null"`
	Status      StatementStatus `gorm:"not null;size:20;index"`

	TransactionCount int             `gorm:"not null;default:0"`
	TotalOrderAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalFeeAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	FinalizedAt *time.Time
}

// TableName returns the database table name
func (Statement) TableName() string {
	return "billing_statements"
}

// NewStatement opens a draft statement for a supplier and period
func NewStatement(supplierID uuid.UUID, periodStart, periodEnd time.Time) (*Statement, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after the start")
	}

	statement := &Statement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		Status:            StatementStatusDraft,
		TotalOrderAmount:  decimal.Zero,
		TotalFeeAmount:    decimal.Zero,
	}

	return statement, nil
}

// Attach adds a transaction's amounts to the statement totals
func (s *Statement) Attach(tx *Transaction) error {
	if s.Status != StatementStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach transactions to a finalized statement")
	}
	if tx.SupplierID != s.SupplierID {
		return shared.NewDomainError("SUPPLIER_MISMATCH", "Transaction belongs to a different supplier")
	}

	s.TransactionCount++
	s.TotalOrderAmount = s.TotalOrderAmount.Add(tx.OrderAmount)
	s.TotalFeeAmount = s.TotalFeeAmount.Add(tx.FeeAmount)
	s.UpdatedAt = time.Now()

	return nil
}

// Finalize locks the statement. Finalized statements are immutable.
func (s *Statement) Finalize() error {
	if s.Status != StatementStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Statement is already finalized")
	}

	now := time.Now()
	s.Status = StatementStatusFinalized
	s.FinalizedAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewStatementFinalizedEvent(s))

	return nil
}
