package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	shared.Repository[Order]
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, int64, error)
	// FindByNodePaths returns orders whose node falls under any of the given
	// materialized path prefixes. Used for rollup views across a subtree.
	FindByNodeIDs(ctx context.Context, nodeIDs []uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	// NextOrderSequence returns a monotonically increasing number used to
	// build order numbers.
	NextOrderSequence(ctx context.Context) (int64, error)
}

// AcceptanceRepository defines the persistence interface for receiving
// records
type AcceptanceRepository interface {
	shared.Repository[Acceptance]
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Acceptance, error)
	FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]Acceptance, int64, error)
	FindOpen(ctx context.Context, filter shared.Filter) ([]Acceptance, int64, error)
}
