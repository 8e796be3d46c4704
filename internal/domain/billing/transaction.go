package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a billing transaction
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSettled TransactionStatus = "SETTLED"
	TransactionStatusVoid    TransactionStatus = "VOID"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSettled, TransactionStatusVoid:
		return true
	}
	return false
}

// Transaction is the commission record produced for each closed order.
// It captures the resolved rate and fee at creation time; later changes
// to the rate config never touch existing transactions.
//
// A transaction created while no rate config was effective carries a zero
// fee and RateConfigMissing set; the settlement run picks it up again once
// a config exists.
type Transaction struct {
	shared.BaseAggregateRoot
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber string    `gorm:"not null;size:50"`
	SupplierID  uuid.UUID `gorm:"type:uuid;not null;index"`
	NodeID      uuid.UUID `gorm:"type:uuid;not null;index"`

	OrderAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	FeeAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RateSource  RateSource      `gorm:"not null;size:20"`

	RateConfigID      *uuid.UUID `gorm:"type:uuid"`
	RateConfigMissing bool       `gorm:"not null;default:false;index"`

	Status      TransactionStatus `gorm:"not null;size:20;index"`
	StatementID *uuid.UUID        `gorm:"type:uuid;index"`
	SettledAt   *time.Time
	VoidedAt    *time.Time
	VoidReason  string `gorm:"size:500"`
}

// TableName returns the database table name
func (Transaction) TableName() string {
	return "billing_transactions"
}

// NewTransaction creates a pending transaction with a resolved rate
func NewTransaction(orderID uuid.UUID, orderNumber string, supplierID, nodeID uuid.UUID, orderAmount decimal.Decimal, config *RateConfig, gmv30d decimal.Decimal, at time.Time) (*Transaction, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if orderAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order amount cannot be negative")
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		NodeID:            nodeID,
		OrderAmount:       orderAmount,
		Status:            TransactionStatusPending,
	}

	if config == nil || !config.IsEffectiveAt(at) {
		tx.Rate = decimal.Zero
		tx.FeeAmount = decimal.Zero
		tx.RateSource = RateSourceMissing
		tx.RateConfigMissing = true
	} else {
		fee, rate, source := config.ComputeFee(orderAmount, gmv30d, at)
		tx.Rate = rate
		tx.FeeAmount = fee
		tx.RateSource = source
		tx.RateConfigID = &config.ID
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))

	return tx, nil
}

// Reprice re-resolves the rate on a pending transaction. Used by the
// settlement run for transactions created without an effective config.
func (t *Transaction) Reprice(config *RateConfig, gmv30d decimal.Decimal, at time.Time) error {
	if t.Status != TransactionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending transactions can be repriced")
	}
	if config == nil || !config.IsEffectiveAt(at) {
		return shared.NewDomainError("NO_EFFECTIVE_CONFIG", "No effective rate config at the given time")
	}

	fee, rate, source := config.ComputeFee(t.OrderAmount, gmv30d, at)
	t.Rate = rate
	t.FeeAmount = fee
	t.RateSource = source
	t.RateConfigID = &config.ID
	t.RateConfigMissing = false
	t.UpdatedAt = time.Now()

	return nil
}

// Settle marks the transaction settled and attaches it to a statement
func (t *Transaction) Settle(statementID uuid.UUID) error {
	if t.Status != TransactionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending transactions can be settled")
	}
	if t.RateConfigMissing {
		return shared.NewDomainError("RATE_CONFIG_MISSING", "Transaction has no resolved rate yet")
	}
	if statementID == uuid.Nil {
		return shared.NewDomainError("INVALID_STATEMENT", "Statement ID cannot be empty")
	}

	now := time.Now()
	t.Status = TransactionStatusSettled
	t.StatementID = &statementID
	t.SettledAt = &now
	t.UpdatedAt = now
	t.AddDomainEvent(NewTransactionSettledEvent(t))

	return nil
}

// Void cancels a pending transaction, for example when an order is
// reopened by dispute resolution.
func (t *Transaction) Void(reason string) error {
	if t.Status != TransactionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending transactions can be voided")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason cannot be empty")
	}

	now := time.Now()
	t.Status = TransactionStatusVoid
	t.VoidedAt = &now
	t.VoidReason = reason
	t.UpdatedAt = now
	t.AddDomainEvent(NewTransactionVoidedEvent(t, reason))

	return nil
}
