package billing

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeRateConfig  = "BillingRateConfig"
	AggregateTypeTransaction = "BillingTransaction"
	AggregateTypeStatement   = "BillingStatement"
)

// Event type constants
const (
	EventTypeRateConfigCreated     = "BillingRateConfigCreated"
	EventTypeRateConfigActivated   = "BillingRateConfigActivated"
	EventTypeRateConfigDeactivated = "BillingRateConfigDeactivated"
	EventTypeRateConfigPromoSet    = "BillingRateConfigPromoSet"
	EventTypeTransactionCreated    = "BillingTransactionCreated"
	EventTypeTransactionSettled    = "BillingTransactionSettled"
	EventTypeTransactionVoided     = "BillingTransactionVoided"
	EventTypeStatementFinalized    = "BillingStatementFinalized"
)

// RateConfigCreatedEvent is raised when a rate config is created
type RateConfigCreatedEvent struct {
	shared.BaseDomainEvent
	ConfigID   uuid.UUID       `json:"config_id"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Name       string          `json:"name"`
	BaseRate   decimal.Decimal `json:"base_rate"`
}

// NewRateConfigCreatedEvent creates a new RateConfigCreatedEvent
func NewRateConfigCreatedEvent(config *RateConfig) *RateConfigCreatedEvent {
	return &RateConfigCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateConfigCreated, AggregateTypeRateConfig, config.ID),
		ConfigID:        config.ID,
		SupplierID:      config.SupplierID,
		Name:            config.Name,
		BaseRate:        config.BaseRate,
	}
}

// EventType returns the event type name
func (e *RateConfigCreatedEvent) EventType() string {
	return EventTypeRateConfigCreated
}

// RateConfigActivatedEvent is raised when a config becomes eligible for
// rate resolution
type RateConfigActivatedEvent struct {
	shared.BaseDomainEvent
	ConfigID   uuid.UUID  `json:"config_id"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
}

// NewRateConfigActivatedEvent creates a new RateConfigActivatedEvent
func NewRateConfigActivatedEvent(config *RateConfig) *RateConfigActivatedEvent {
	return &RateConfigActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateConfigActivated, AggregateTypeRateConfig, config.ID),
		ConfigID:        config.ID,
		SupplierID:      config.SupplierID,
	}
}

// EventType returns the event type name
func (e *RateConfigActivatedEvent) EventType() string {
	return EventTypeRateConfigActivated
}

// RateConfigDeactivatedEvent is raised when a config is withdrawn
type RateConfigDeactivatedEvent struct {
	shared.BaseDomainEvent
	ConfigID   uuid.UUID  `json:"config_id"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
}

// NewRateConfigDeactivatedEvent creates a new RateConfigDeactivatedEvent
func NewRateConfigDeactivatedEvent(config *RateConfig) *RateConfigDeactivatedEvent {
	return &RateConfigDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateConfigDeactivated, AggregateTypeRateConfig, config.ID),
		ConfigID:        config.ID,
		SupplierID:      config.SupplierID,
	}
}

// EventType returns the event type name
func (e *RateConfigDeactivatedEvent) EventType() string {
	return EventTypeRateConfigDeactivated
}

// RateConfigPromoSetEvent is raised when a promotional window is set
type RateConfigPromoSetEvent struct {
	shared.BaseDomainEvent
	ConfigID  uuid.UUID        `json:"config_id"`
	PromoRate *decimal.Decimal `json:"promo_rate"`
}

// NewRateConfigPromoSetEvent creates a new RateConfigPromoSetEvent
func NewRateConfigPromoSetEvent(config *RateConfig) *RateConfigPromoSetEvent {
	return &RateConfigPromoSetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateConfigPromoSet, AggregateTypeRateConfig, config.ID),
		ConfigID:        config.ID,
		PromoRate:       config.PromoRate,
	}
}

// EventType returns the event type name
func (e *RateConfigPromoSetEvent) EventType() string {
	return EventTypeRateConfigPromoSet
}

// TransactionCreatedEvent is raised when a commission transaction is
// recorded for a closed order
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID       `json:"transaction_id"`
	OrderID           uuid.UUID       `json:"order_id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	OrderAmount       decimal.Decimal `json:"order_amount"`
	FeeAmount         decimal.Decimal `json:"fee_amount"`
	Rate              decimal.Decimal `json:"rate"`
	RateSource        RateSource      `json:"rate_source"`
	RateConfigMissing bool            `json:"rate_config_missing"`
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(tx *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCreated, AggregateTypeTransaction, tx.ID),
		TransactionID:     tx.ID,
		OrderID:           tx.OrderID,
		SupplierID:        tx.SupplierID,
		OrderAmount:       tx.OrderAmount,
		FeeAmount:         tx.FeeAmount,
		Rate:              tx.Rate,
		RateSource:        tx.RateSource,
		RateConfigMissing: tx.RateConfigMissing,
	}
}

// EventType returns the event type name
func (e *TransactionCreatedEvent) EventType() string {
	return EventTypeTransactionCreated
}

// TransactionSettledEvent is raised when a transaction is settled onto a
// statement
type TransactionSettledEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	StatementID   *uuid.UUID      `json:"statement_id"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
}

// NewTransactionSettledEvent creates a new TransactionSettledEvent
func NewTransactionSettledEvent(tx *Transaction) *TransactionSettledEvent {
	return &TransactionSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionSettled, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		SupplierID:      tx.SupplierID,
		StatementID:     tx.StatementID,
		FeeAmount:       tx.FeeAmount,
	}
}

// EventType returns the event type name
func (e *TransactionSettledEvent) EventType() string {
	return EventTypeTransactionSettled
}

// TransactionVoidedEvent is raised when a pending transaction is voided
type TransactionVoidedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	OrderID       uuid.UUID `json:"order_id"`
	Reason        string    `json:"reason"`
}

// NewTransactionVoidedEvent creates a new TransactionVoidedEvent
func NewTransactionVoidedEvent(tx *Transaction, reason string) *TransactionVoidedEvent {
	return &TransactionVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionVoided, AggregateTypeTransaction, tx.ID),
		TransactionID:   tx.ID,
		OrderID:         tx.OrderID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *TransactionVoidedEvent) EventType() string {
	return EventTypeTransactionVoided
}

// StatementFinalizedEvent is raised when a settlement statement is locked.
// Notification listens for this to send the supplier their statement.
type StatementFinalizedEvent struct {
	shared.BaseDomainEvent
	StatementID      uuid.UUID       `json:"statement_id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	TransactionCount int             `json:"transaction_count"`
	TotalFeeAmount   decimal.Decimal `json:"total_fee_amount"`
}

// NewStatementFinalizedEvent creates a new StatementFinalizedEvent
func NewStatementFinalizedEvent(statement *Statement) *StatementFinalizedEvent {
	return &StatementFinalizedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStatementFinalized, AggregateTypeStatement, statement.ID),
		StatementID:      statement.ID,
		SupplierID:       statement.SupplierID,
		TransactionCount: statement.TransactionCount,
		TotalFeeAmount:   statement.TotalFeeAmount,
	}
}

// EventType returns the event type name
func (e *StatementFinalizedEvent) EventType() string {
	return EventTypeStatementFinalized
}
