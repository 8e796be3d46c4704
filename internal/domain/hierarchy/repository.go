package hierarchy

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// NodeRepository defines the persistence interface for hierarchy nodes
type NodeRepository interface {
	shared.Repository[Node]
	FindByCode(ctx context.Context, code string) (*Node, error)
	FindRoots(ctx context.Context, filter shared.Filter) ([]Node, int64, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Node, error)
	// FindSubtree returns all nodes whose path starts with the given prefix,
	// including the node that owns the prefix, ordered by path.
	FindSubtree(ctx context.Context, pathPrefix string) ([]Node, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Node, error)
	FindByLevel(ctx context.Context, level NodeLevel, filter shared.Filter) ([]Node, int64, error)
	// SaveAll persists multiple nodes in a single transaction
	SaveAll(ctx context.Context, nodes []*Node) error
	// RewritePathPrefix replaces oldPrefix with newPrefix on all descendant
	// paths after a move. Returns the number of rows updated.
	RewritePathPrefix(ctx context.Context, oldPrefix, newPrefix string) (int64, error)
	// SetActiveByPathPrefix toggles active on an entire subtree.
	SetActiveByPathPrefix(ctx context.Context, pathPrefix string, active bool) (int64, error)
	CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error)
}
