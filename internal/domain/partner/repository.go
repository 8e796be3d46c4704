package partner

import (
	"context"

	"github.com/orderhub/backend/internal/domain/shared"
)

// SupplierRepository defines the persistence interface for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	FindByStatus(ctx context.Context, status SupplierStatus, filter shared.Filter) ([]Supplier, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
