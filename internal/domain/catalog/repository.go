package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	shared.Repository[Product]
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	FindBySupplierAndSKU(ctx context.Context, supplierID uuid.UUID, sku string) (*Product, error)
	FindPublic(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	ExistsBySupplierAndSKU(ctx context.Context, supplierID uuid.UUID, sku string) (bool, error)
}

// SkuShareRepository defines the persistence interface for SKU shares
type SkuShareRepository interface {
	shared.Repository[SkuShare]
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]SkuShare, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]SkuShare, int64, error)
	FindByTargetNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]SkuShare, int64, error)
	FindPendingForNode(ctx context.Context, nodeID uuid.UUID) ([]SkuShare, error)
	// FindApprovedForParticipant returns the approved share for the product
	// in which the node is an active participant, or shared.ErrNotFound.
	// The share's target may be the node itself or any of its ancestors.
	FindApprovedForParticipant(ctx context.Context, productID, nodeID uuid.UUID) (*SkuShare, error)
}

// ShareAuditLogRepository defines the persistence interface for the share
// audit trail. Entries are append-only.
type ShareAuditLogRepository interface {
	Save(ctx context.Context, entries ...*ShareAuditLog) error
	FindByShare(ctx context.Context, shareID uuid.UUID, filter shared.Filter) ([]ShareAuditLog, int64, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ShareAuditLog, int64, error)
}
