package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CreateRateConfigRequest creates a commission configuration. Leave
// SupplierID empty for the platform default config.
type CreateRateConfigRequest struct {
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	Name          string          `json:"name" binding:"required,max=200"`
	BaseRate      decimal.Decimal `json:"base_rate" binding:"required"`
	MinFee        decimal.Decimal `json:"min_fee"`
	MaxFee        decimal.Decimal `json:"max_fee"`
	EffectiveFrom time.Time       `json:"effective_from" binding:"required"`
	EffectiveTo   *time.Time      `json:"effective_to"`
}

// AddTierRequest adds a GMV band to a rate config
type AddTierRequest struct {
	MinGMV decimal.Decimal `json:"min_gmv"`
	MaxGMV decimal.Decimal `json:"max_gmv"`
	Rate   decimal.Decimal `json:"rate" binding:"required"`
}

// SetPromoRequest sets a promotional rate window on a rate config
type SetPromoRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
	From time.Time       `json:"from" binding:"required"`
	To   time.Time       `json:"to" binding:"required"`
}

// VoidTransactionRequest voids a pending transaction
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RateConfigListFilter holds the filters for listing rate configs
type RateConfigListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// TransactionListFilter holds the filters for listing transactions
type TransactionListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// StatementListFilter holds the filters for listing statements
type StatementListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// RateTierResponse is the API representation of a rate tier
type RateTierResponse struct {
	ID     uuid.UUID       `json:"id"`
	MinGMV decimal.Decimal `json:"min_gmv"`
	MaxGMV decimal.Decimal `json:"max_gmv"`
	Rate   decimal.Decimal `json:"rate"`
}

// RateConfigResponse is the API representation of a rate config
type RateConfigResponse struct {
	ID            uuid.UUID          `json:"id"`
	SupplierID    *uuid.UUID         `json:"supplier_id,omitempty"`
	Name          string             `json:"name"`
	Active        bool               `json:"active"`
	BaseRate      decimal.Decimal    `json:"base_rate"`
	MinFee        decimal.Decimal    `json:"min_fee"`
	MaxFee        decimal.Decimal    `json:"max_fee"`
	EffectiveFrom time.Time          `json:"effective_from"`
	EffectiveTo   *time.Time         `json:"effective_to,omitempty"`
	PromoRate     *decimal.Decimal   `json:"promo_rate,omitempty"`
	PromoFrom     *time.Time         `json:"promo_from,omitempty"`
	PromoTo       *time.Time         `json:"promo_to,omitempty"`
	Tiers         []RateTierResponse `json:"tiers"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToRateConfigResponse converts a rate config aggregate to its API
// representation
func ToRateConfigResponse(c *billing.RateConfig) RateConfigResponse {
	tiers := make([]RateTierResponse, len(c.Tiers))
	for i, tier := range c.Tiers {
		tiers[i] = RateTierResponse{
			ID:     tier.ID,
			MinGMV: tier.MinGMV,
			MaxGMV: tier.MaxGMV,
			Rate:   tier.Rate,
		}
	}
	return RateConfigResponse{
		ID:            c.ID,
		SupplierID:    c.SupplierID,
		Name:          c.Name,
		Active:        c.Active,
		BaseRate:      c.BaseRate,
		MinFee:        c.MinFee,
		MaxFee:        c.MaxFee,
		EffectiveFrom: c.EffectiveFrom,
		EffectiveTo:   c.EffectiveTo,
		PromoRate:     c.PromoRate,
		PromoFrom:     c.PromoFrom,
		PromoTo:       c.PromoTo,
		Tiers:         tiers,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToRateConfigResponses converts a slice of rate configs
func ToRateConfigResponses(configs []billing.RateConfig) []RateConfigResponse {
	responses := make([]RateConfigResponse, len(configs))
	for i := range configs {
		responses[i] = ToRateConfigResponse(&configs[i])
	}
	return responses
}

// TransactionResponse is the API representation of a billing transaction
type TransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	OrderID           uuid.UUID       `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	NodeID            uuid.UUID       `json:"node_id"`
	OrderAmount       decimal.Decimal `json:"order_amount"`
	Rate              decimal.Decimal `json:"rate"`
	FeeAmount         decimal.Decimal `json:"fee_amount"`
	RateSource        string          `json:"rate_source"`
	RateConfigID      *uuid.UUID      `json:"rate_config_id,omitempty"`
	RateConfigMissing bool            `json:"rate_config_missing"`
	Status            string          `json:"status"`
	StatementID       *uuid.UUID      `json:"statement_id,omitempty"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
	VoidedAt          *time.Time      `json:"voided_at,omitempty"`
	VoidReason        string          `json:"void_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToTransactionResponse converts a transaction aggregate to its API
// representation
func ToTransactionResponse(t *billing.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID,
		OrderID:           t.OrderID,
		OrderNumber:       t.OrderNumber,
		SupplierID:        t.SupplierID,
		NodeID:            t.NodeID,
		OrderAmount:       t.OrderAmount,
		Rate:              t.Rate,
		FeeAmount:         t.FeeAmount,
		RateSource:        string(t.RateSource),
		RateConfigID:      t.RateConfigID,
		RateConfigMissing: t.RateConfigMissing,
		Status:            string(t.Status),
		StatementID:       t.StatementID,
		SettledAt:         t.SettledAt,
		VoidedAt:          t.VoidedAt,
		VoidReason:        t.VoidReason,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions
func ToTransactionResponses(transactions []billing.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToTransactionResponse(&transactions[i])
	}
	return responses
}

// StatementResponse is the API representation of a settlement statement
type StatementResponse struct {
	ID               uuid.UUID       `json:"id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	Status           string          `json:"status"`
	TransactionCount int             `json:"transaction_count"`
	TotalOrderAmount decimal.Decimal `json:"total_order_amount"`
	TotalFeeAmount   decimal.Decimal `json:"total_fee_amount"`
	FinalizedAt      *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToStatementResponse converts a statement aggregate to its API
// representation
func ToStatementResponse(s *billing.Statement) StatementResponse {
	return StatementResponse{
		ID:               s.ID,
		SupplierID:       s.SupplierID,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		Status:           string(s.Status),
		TransactionCount: s.TransactionCount,
		TotalOrderAmount: s.TotalOrderAmount,
		TotalFeeAmount:   s.TotalFeeAmount,
		FinalizedAt:      s.FinalizedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToStatementResponses converts a slice of statements
func ToStatementResponses(statements []billing.Statement) []StatementResponse {
	responses := make([]StatementResponse, len(statements))
	for i := range statements {
		responses[i] = ToStatementResponse(&statements[i])
	}
	return responses
}

// BillingSummaryResponse reports transaction counts per status
type BillingSummaryResponse struct {
	Pending int64 `json:"pending"`
	Settled int64 `json:"settled"`
	Void    int64 `json:"void"`
}
