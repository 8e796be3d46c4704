package integration

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SettingsCacheHandler drops cached effective settings when hierarchy
// nodes change. Effective settings are merged down the ancestor chain,
// so any change invalidates the whole subtree under the changed node.
type SettingsCacheHandler struct {
	cache  hierarchy.SettingsCache
	nodes  hierarchy.NodeRepository
	logger *zap.Logger
}

// NewSettingsCacheHandler creates a new SettingsCacheHandler
func NewSettingsCacheHandler(cache hierarchy.SettingsCache, nodes hierarchy.NodeRepository, logger *zap.Logger) *SettingsCacheHandler {
	return &SettingsCacheHandler{
		cache:  cache,
		nodes:  nodes,
		logger: logger,
	}
}

// EventTypes returns the event types this handler reacts to
func (h *SettingsCacheHandler) EventTypes() []string {
	return []string{
		hierarchy.EventTypeNodeUpdated,
		hierarchy.EventTypeNodeMoved,
		hierarchy.EventTypeNodeActivated,
		hierarchy.EventTypeNodeDeactivated,
	}
}

// Handle invalidates the affected subtree
func (h *SettingsCacheHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *hierarchy.NodeUpdatedEvent:
		return h.invalidateNodeSubtree(ctx, e.NodeID)
	case *hierarchy.NodeMovedEvent:
		return h.invalidatePath(ctx, e.NewPath)
	case *hierarchy.NodeActivatedEvent:
		return h.invalidatePath(ctx, e.Path)
	case *hierarchy.NodeDeactivatedEvent:
		return h.invalidatePath(ctx, e.Path)
	default:
		return nil
	}
}

func (h *SettingsCacheHandler) invalidateNodeSubtree(ctx context.Context, nodeID uuid.UUID) error {
	node, err := h.nodes.FindByID(ctx, nodeID)
	if err != nil {
		// The node is gone or unreadable; dropping everything is the
		// safe fallback.
		h.logger.Warn("falling back to full settings cache invalidation",
			zap.String("node_id", nodeID.String()),
			zap.Error(err),
		)
		return h.cache.InvalidateAll(ctx)
	}
	return h.invalidatePath(ctx, node.Path)
}

func (h *SettingsCacheHandler) invalidatePath(ctx context.Context, pathPrefix string) error {
	subtree, err := h.nodes.FindSubtree(ctx, pathPrefix)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(subtree))
	for i := range subtree {
		ids[i] = subtree[i].ID
	}
	if err := h.cache.DeleteMany(ctx, ids); err != nil {
		return err
	}
	h.logger.Debug("invalidated settings cache subtree",
		zap.String("path_prefix", pathPrefix),
		zap.Int("nodes", len(ids)),
	)
	return nil
}

var _ shared.EventHandler = (*SettingsCacheHandler)(nil)
