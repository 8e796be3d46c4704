package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
