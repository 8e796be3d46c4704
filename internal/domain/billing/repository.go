package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateConfigRepository defines the persistence interface for rate configs
type RateConfigRepository interface {
	shared.Repository[RateConfig]
	// FindEffectiveForSupplier returns the active config whose effective
	// window covers the given time, preferring a supplier-specific config
	// over the platform default. Returns shared.ErrNotFound when neither
	// exists.
	FindEffectiveForSupplier(ctx context.Context, supplierID uuid.UUID, at time.Time) (*RateConfig, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]RateConfig, int64, error)
	FindPlatformDefaults(ctx context.Context, filter shared.Filter) ([]RateConfig, int64, error)
}

// TransactionRepository defines the persistence interface for billing
// transactions
type TransactionRepository interface {
	shared.Repository[Transaction]
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Transaction, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Transaction, int64, error)
	FindByStatement(ctx context.Context, statementID uuid.UUID) ([]Transaction, error)
	// FindPendingBySupplier returns the supplier's pending transactions
	// created before the given cutoff, oldest first. Settlement passes the
	// period end so transactions from a later period never land in an
	// earlier statement.
	FindPendingBySupplier(ctx context.Context, supplierID uuid.UUID, createdBefore time.Time) ([]Transaction, error)
	// FindSuppliersWithPending returns the distinct supplier IDs that have
	// pending transactions. The settlement run iterates these.
	FindSuppliersWithPending(ctx context.Context) ([]uuid.UUID, error)
	// SumOrderAmountBySupplier sums the order value of the supplier's
	// non-void transactions created in the window. Voided transactions do
	// not count toward the rolling GMV basis.
	SumOrderAmountBySupplier(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context) (map[TransactionStatus]int64, error)
}

// StatementRepository defines the persistence interface for settlement
// statements
type StatementRepository interface {
	shared.Repository[Statement]
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Statement, int64, error)
	FindBySupplierAndPeriod(ctx context.Context, supplierID uuid.UUID, periodStart time.Time) (*Statement, error)
}
