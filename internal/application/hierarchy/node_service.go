// Package hierarchy contains the application services for the customer
// hierarchy: groups, companies, locations and business units.
package hierarchy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NodeService orchestrates hierarchy node operations
type NodeService struct {
	nodes       hierarchy.NodeRepository
	cache       hierarchy.SettingsCache
	publisher   shared.EventPublisher
	logger      *zap.Logger
	settingsTTL time.Duration
}

// NewNodeService creates a new NodeService
func NewNodeService(nodes hierarchy.NodeRepository, cache hierarchy.SettingsCache, publisher shared.EventPublisher, logger *zap.Logger) *NodeService {
	return &NodeService{
		nodes:       nodes,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
		settingsTTL: hierarchy.DefaultCacheConfig().TTL,
	}
}

// Create creates a hierarchy node. Without a parent it creates a new group;
// with a parent it creates the node one level below.
func (s *NodeService) Create(ctx context.Context, req CreateNodeRequest) (*NodeResponse, error) {
	code := strings.TrimSpace(req.Code)

	if _, err := s.nodes.FindByCode(ctx, code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A node with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var (
		node *hierarchy.Node
		err  error
	)
	if req.ParentID == nil {
		node, err = hierarchy.NewRootNode(req.Name, code)
	} else {
		var parent *hierarchy.Node
		parent, err = s.nodes.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		node, err = hierarchy.NewChildNode(parent, req.Name, code)
	}
	if err != nil {
		return nil, err
	}

	if len(req.Settings) > 0 {
		node.Settings = hierarchy.Settings(req.Settings)
	}
	if req.ExternalRef != "" {
		node.SetExternalRef(req.ExternalRef)
	}
	if req.Remark != "" {
		node.SetRemark(req.Remark)
	}

	if err := s.nodes.Save(ctx, node); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, node)

	s.logger.Info("hierarchy node created",
		zap.String("node_id", node.ID.String()),
		zap.String("level", node.Level.String()),
		zap.String("path", node.Path),
	)

	resp := ToNodeResponse(node)
	return &resp, nil
}

// GetByID returns a node by its ID
func (s *NodeService) GetByID(ctx context.Context, id uuid.UUID) (*NodeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToNodeResponse(node)
	return &resp, nil
}

// GetByCode returns a node by its code
func (s *NodeService) GetByCode(ctx context.Context, code string) (*NodeResponse, error) {
	node, err := s.nodes.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToNodeResponse(node)
	return &resp, nil
}

// ListRoots returns the group-level nodes
func (s *NodeService) ListRoots(ctx context.Context, filter NodeListFilter) (*shared.Paginated[NodeResponse], error) {
	f := s.toFilter(filter)
	roots, total, err := s.nodes.FindRoots(ctx, f)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToNodeResponses(roots), total, f.Page, f.PageSize)
	return &result, nil
}

// List returns nodes matching the filter. A level narrows the listing to
// one hierarchy level.
func (s *NodeService) List(ctx context.Context, filter NodeListFilter) (*shared.Paginated[NodeResponse], error) {
	f := s.toFilter(filter)

	if filter.Level != "" {
		level := hierarchy.NodeLevel(strings.ToUpper(filter.Level))
		if !level.IsValid() {
			return nil, shared.NewDomainError("INVALID_LEVEL", "Unknown hierarchy level")
		}
		nodes, total, err := s.nodes.FindByLevel(ctx, level, f)
		if err != nil {
			return nil, err
		}
		result := shared.NewPaginated(ToNodeResponses(nodes), total, f.Page, f.PageSize)
		return &result, nil
	}

	nodes, err := s.nodes.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.nodes.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToNodeResponses(nodes), total, f.Page, f.PageSize)
	return &result, nil
}

// GetChildren returns the direct children of a node
func (s *NodeService) GetChildren(ctx context.Context, id uuid.UUID) ([]NodeResponse, error) {
	if _, err := s.nodes.FindByID(ctx, id); err != nil {
		return nil, err
	}
	children, err := s.nodes.FindChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToNodeResponses(children), nil
}

// GetTree returns the node and all its descendants as a nested tree
func (s *NodeService) GetTree(ctx context.Context, id uuid.UUID) (*NodeTreeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subtree, err := s.nodes.FindSubtree(ctx, node.Path)
	if err != nil {
		return nil, err
	}
	return BuildTree(subtree), nil
}

// GetAncestors returns the chain above a node, root first
func (s *NodeService) GetAncestors(ctx context.Context, id uuid.UUID) ([]NodeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ancestorIDs := node.AncestorIDs()
	if len(ancestorIDs) == 0 {
		return []NodeResponse{}, nil
	}
	ancestors, err := s.nodes.FindByIDs(ctx, ancestorIDs)
	if err != nil {
		return nil, err
	}

	// FindByIDs gives no ordering; restore root-first path order
	byID := make(map[uuid.UUID]*hierarchy.Node, len(ancestors))
	for i := range ancestors {
		byID[ancestors[i].ID] = &ancestors[i]
	}
	ordered := make([]NodeResponse, 0, len(ancestorIDs))
	for _, ancestorID := range ancestorIDs {
		if n, ok := byID[ancestorID]; ok {
			ordered = append(ordered, ToNodeResponse(n))
		}
	}
	return ordered, nil
}

// BulkCreate creates several children under one parent. Items fail
// independently so one bad code does not sink the batch.
func (s *NodeService) BulkCreate(ctx context.Context, req BulkCreateNodesRequest) []BulkNodeResult {
	results := make([]BulkNodeResult, len(req.Nodes))
	for i, item := range req.Nodes {
		result := BulkNodeResult{Code: item.Code}

		node, err := s.Create(ctx, CreateNodeRequest{
			Name:     item.Name,
			Code:     item.Code,
			ParentID: &req.ParentID,
		})
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
			result.NodeID = &node.ID
		}
		results[i] = result
	}
	return results
}

// BulkMove reparents several nodes under a new parent
func (s *NodeService) BulkMove(ctx context.Context, req BulkMoveNodesRequest) []BulkNodeResult {
	results := make([]BulkNodeResult, len(req.NodeIDs))
	for i, nodeID := range req.NodeIDs {
		id := nodeID
		result := BulkNodeResult{NodeID: &id}

		if _, err := s.Move(ctx, nodeID, MoveNodeRequest{NewParentID: req.NewParentID}); err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
		}
		results[i] = result
	}
	return results
}

// BulkDeactivate deactivates several nodes (and their subtrees)
func (s *NodeService) BulkDeactivate(ctx context.Context, req BulkNodeIDsRequest) []BulkNodeResult {
	results := make([]BulkNodeResult, len(req.NodeIDs))
	for i, nodeID := range req.NodeIDs {
		id := nodeID
		result := BulkNodeResult{NodeID: &id}

		if _, err := s.Deactivate(ctx, nodeID); err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
		}
		results[i] = result
	}
	return results
}

// Update changes a node's name, settings, external reference or remark
func (s *NodeService) Update(ctx context.Context, id uuid.UUID, req UpdateNodeRequest) (*NodeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := node.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	settingsChanged := false
	if req.Settings != nil {
		node.UpdateSettings(hierarchy.Settings(*req.Settings))
		settingsChanged = true
	}
	if req.ExternalRef != nil {
		node.SetExternalRef(*req.ExternalRef)
	}
	if req.Remark != nil {
		node.SetRemark(*req.Remark)
	}

	if err := s.nodes.Save(ctx, node); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, node)

	if settingsChanged {
		s.invalidateSubtreeSettings(ctx, node.Path)
	}

	resp := ToNodeResponse(node)
	return &resp, nil
}

// Move reparents a node under a new parent on the same level rules the
// domain enforces, then rewrites the materialized paths of the subtree.
func (s *NodeService) Move(ctx context.Context, id uuid.UUID, req MoveNodeRequest) (*NodeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	newParent, err := s.nodes.FindByID(ctx, req.NewParentID)
	if err != nil {
		return nil, err
	}

	oldPath, err := node.MoveTo(newParent)
	if err != nil {
		return nil, err
	}

	if err := s.nodes.Save(ctx, node); err != nil {
		return nil, err
	}
	rewritten, err := s.nodes.RewritePathPrefix(ctx, oldPath, node.Path)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, node)

	// Effective settings of every descendant may change with the ancestry.
	s.invalidateSubtreeSettings(ctx, node.Path)

	s.logger.Info("hierarchy node moved",
		zap.String("node_id", node.ID.String()),
		zap.String("old_path", oldPath),
		zap.String("new_path", node.Path),
		zap.Int64("descendants_rewritten", rewritten),
	)

	resp := ToNodeResponse(node)
	return &resp, nil
}

// Deactivate marks the node and its entire subtree inactive. Ordering is
// blocked anywhere under an inactive node.
func (s *NodeService) Deactivate(ctx context.Context, id uuid.UUID) (*NodeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := node.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.nodes.Save(ctx, node); err != nil {
		return nil, err
	}
	affected, err := s.nodes.SetActiveByPathPrefix(ctx, node.Path, false)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, node)
	s.invalidateSubtreeSettings(ctx, node.Path)

	s.logger.Info("hierarchy subtree deactivated",
		zap.String("node_id", node.ID.String()),
		zap.Int64("nodes_affected", affected),
	)

	resp := ToNodeResponse(node)
	return &resp, nil
}

// Activate marks a node active again. Descendants deactivated alongside it
// stay inactive until activated explicitly; the ancestor chain must already
// be active.
func (s *NodeService) Activate(ctx context.Context, id uuid.UUID) (*NodeResponse, error) {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ancestorIDs := node.AncestorIDs(); len(ancestorIDs) > 0 {
		ancestors, err := s.nodes.FindByIDs(ctx, ancestorIDs)
		if err != nil {
			return nil, err
		}
		for i := range ancestors {
			if !ancestors[i].Active {
				return nil, shared.ErrHierarchyInactive
			}
		}
	}

	if err := node.Activate(); err != nil {
		return nil, err
	}
	if err := s.nodes.Save(ctx, node); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, node)
	s.invalidateSubtreeSettings(ctx, node.Path)

	resp := ToNodeResponse(node)
	return &resp, nil
}

// Delete removes a node without children. Nodes with descendants must be
// emptied or moved first.
func (s *NodeService) Delete(ctx context.Context, id uuid.UUID) error {
	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.nodes.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Node has children and cannot be deleted")
	}

	if err := s.nodes.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, node.ID); err != nil {
			s.logger.Warn("failed to evict settings cache entry", zap.Error(err))
		}
	}
	return nil
}

// GetEffectiveSettings resolves the node's configuration by merging the
// settings of its ancestor chain from the root down, nearest node winning.
func (s *NodeService) GetEffectiveSettings(ctx context.Context, id uuid.UUID) (*EffectiveSettingsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err != nil {
			s.logger.Warn("settings cache lookup failed", zap.Error(err))
		} else if cached != nil {
			return &EffectiveSettingsResponse{NodeID: id, Settings: cached}, nil
		}
	}

	node, err := s.nodes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effective := hierarchy.Settings{}
	if ancestorIDs := node.AncestorIDs(); len(ancestorIDs) > 0 {
		ancestors, err := s.nodes.FindByIDs(ctx, ancestorIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*hierarchy.Node, len(ancestors))
		for i := range ancestors {
			byID[ancestors[i].ID] = &ancestors[i]
		}
		// Walk root first so nearer ancestors override.
		for _, ancestorID := range ancestorIDs {
			if ancestor, ok := byID[ancestorID]; ok {
				effective = ancestor.Settings.Merged(effective)
			}
		}
	}
	effective = node.Settings.Merged(effective)

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, effective, s.settingsTTL); err != nil {
			s.logger.Warn("failed to cache effective settings", zap.Error(err))
		}
	}

	return &EffectiveSettingsResponse{NodeID: id, Settings: effective}, nil
}

func (s *NodeService) invalidateSubtreeSettings(ctx context.Context, pathPrefix string) {
	if s.cache == nil {
		return
	}
	subtree, err := s.nodes.FindSubtree(ctx, pathPrefix)
	if err != nil {
		s.logger.Warn("failed to load subtree for cache invalidation", zap.Error(err))
		return
	}
	ids := make([]uuid.UUID, len(subtree))
	for i := range subtree {
		ids[i] = subtree[i].ID
	}
	if err := s.cache.DeleteMany(ctx, ids); err != nil {
		s.logger.Warn("failed to evict settings cache entries", zap.Error(err))
	}
}

func (s *NodeService) toFilter(filter NodeListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	return f
}

func (s *NodeService) publishEvents(ctx context.Context, node *hierarchy.Node) {
	events := node.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish hierarchy events",
			zap.String("node_id", node.ID.String()),
			zap.Error(err),
		)
	}
	node.ClearDomainEvents()
}
