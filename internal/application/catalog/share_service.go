package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ShareActor identifies who performs a share operation and from where.
// SupplierID and NodeID carry the caller's scope; platform admins have
// neither.
type ShareActor struct {
	UserID     uuid.UUID
	SupplierID *uuid.UUID
	NodeID     *uuid.UUID
	IP         string
}

// ShareService orchestrates the SKU share approval workflow. Every
// decision is recorded in the append-only audit trail.
type ShareService struct {
	shares    catalog.SkuShareRepository
	products  catalog.ProductRepository
	nodes     hierarchy.NodeRepository
	audits    catalog.ShareAuditLogRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewShareService creates a new ShareService
func NewShareService(
	shares catalog.SkuShareRepository,
	products catalog.ProductRepository,
	nodes hierarchy.NodeRepository,
	audits catalog.ShareAuditLogRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ShareService {
	return &ShareService{
		shares:    shares,
		products:  products,
		nodes:     nodes,
		audits:    audits,
		publisher: publisher,
		logger:    logger,
	}
}

// Request offers a private SKU to a customer hierarchy subtree
func (s *ShareService) Request(ctx context.Context, actor ShareActor, req RequestShareRequest) (*ShareResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if actor.SupplierID != nil && *actor.SupplierID != product.SupplierID {
		return nil, shared.ErrForbidden
	}

	target, err := s.nodes.FindByID(ctx, req.TargetNodeID)
	if err != nil {
		return nil, err
	}
	if !target.Active {
		return nil, shared.ErrHierarchyInactive
	}

	existing, err := s.shares.FindByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].TargetNodeID == req.TargetNodeID &&
			(existing[i].Status == catalog.ShareStatusPending || existing[i].Status == catalog.ShareStatusApproved) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An open share for this product and node already exists")
		}
	}

	share, err := catalog.NewSkuShare(product, req.TargetNodeID, actor.UserID, req.Message)
	if err != nil {
		return nil, err
	}

	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionRequested, actor, nil, req.Message); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	s.logger.Info("sku share requested",
		zap.String("share_id", share.ID.String()),
		zap.String("sku", share.SKU),
		zap.String("target_node_id", share.TargetNodeID.String()),
	)

	resp := ToShareResponse(share)
	return &resp, nil
}

// Approve accepts a pending share on behalf of the target node
func (s *ShareService) Approve(ctx context.Context, shareID uuid.UUID, actor ShareActor, req DecideShareRequest) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDecisionScope(ctx, share, actor); err != nil {
		return nil, err
	}

	if err := share.Approve(actor.UserID, req.Note); err != nil {
		return nil, err
	}
	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionApproved, actor, nil, req.Note); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	resp := ToShareResponse(share)
	return &resp, nil
}

// Reject declines a pending share on behalf of the target node
func (s *ShareService) Reject(ctx context.Context, shareID uuid.UUID, actor ShareActor, req DecideShareRequest) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDecisionScope(ctx, share, actor); err != nil {
		return nil, err
	}

	if err := share.Reject(actor.UserID, req.Note); err != nil {
		return nil, err
	}
	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionRejected, actor, nil, req.Note); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	resp := ToShareResponse(share)
	return &resp, nil
}

// Cancel withdraws a pending share request from the supplier side
func (s *ShareService) Cancel(ctx context.Context, shareID uuid.UUID, actor ShareActor) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if actor.SupplierID != nil && *actor.SupplierID != share.SupplierID {
		return nil, shared.ErrForbidden
	}

	if err := share.Cancel(); err != nil {
		return nil, err
	}
	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionCancelled, actor, nil, ""); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	resp := ToShareResponse(share)
	return &resp, nil
}

// Revoke withdraws an approved share. Active participants are deactivated;
// their open orders are not affected.
func (s *ShareService) Revoke(ctx context.Context, shareID uuid.UUID, actor ShareActor, req RevokeShareRequest) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if actor.SupplierID != nil && *actor.SupplierID != share.SupplierID {
		return nil, shared.ErrForbidden
	}

	if err := share.Revoke(req.Reason); err != nil {
		return nil, err
	}
	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionRevoked, actor, nil, req.Reason); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	resp := ToShareResponse(share)
	return &resp, nil
}

// Join enrolls a business unit as an active participant of an approved
// share. The unit must sit under the share's target node.
func (s *ShareService) Join(ctx context.Context, shareID uuid.UUID, actor ShareActor, req JoinShareRequest) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}

	node, err := s.nodes.FindByID(ctx, req.NodeID)
	if err != nil {
		return nil, err
	}
	if node.Level != hierarchy.LevelBusinessUnit {
		return nil, shared.NewDomainError("INVALID_NODE", "Only business units can join a share")
	}
	if !node.Active {
		return nil, shared.ErrHierarchyInactive
	}
	target, err := s.nodes.FindByID(ctx, share.TargetNodeID)
	if err != nil {
		return nil, err
	}
	if node.ID != target.ID && !node.IsDescendantOf(target) {
		return nil, shared.NewDomainError("OUT_OF_SCOPE", "Node is not covered by this share")
	}

	if _, err := share.Join(req.NodeID, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionJoined, actor, &req.NodeID, ""); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	resp := ToShareResponse(share)
	return &resp, nil
}

// Leave deactivates a business unit's participation in a share
func (s *ShareService) Leave(ctx context.Context, shareID uuid.UUID, actor ShareActor, nodeID uuid.UUID) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}

	if err := share.Leave(nodeID); err != nil {
		return nil, err
	}
	if err := s.shares.Save(ctx, share); err != nil {
		return nil, err
	}
	if err := s.audit(ctx, share, catalog.AuditActionLeft, actor, &nodeID, ""); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, share)

	resp := ToShareResponse(share)
	return &resp, nil
}

// GetByID returns a share by ID
func (s *ShareService) GetByID(ctx context.Context, id uuid.UUID) (*ShareResponse, error) {
	share, err := s.shares.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToShareResponse(share)
	return &resp, nil
}

// ListBySupplier returns a supplier's outgoing shares
func (s *ShareService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, filter ShareListFilter) (*shared.Paginated[ShareResponse], error) {
	f := s.toFilter(filter)
	shares, total, err := s.shares.FindBySupplier(ctx, supplierID, f)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToShareResponses(shares), total, f.Page, f.PageSize)
	return &result, nil
}

// ListByTargetNode returns the shares addressed to a node
func (s *ShareService) ListByTargetNode(ctx context.Context, nodeID uuid.UUID, filter ShareListFilter) (*shared.Paginated[ShareResponse], error) {
	f := s.toFilter(filter)
	shares, total, err := s.shares.FindByTargetNode(ctx, nodeID, f)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToShareResponses(shares), total, f.Page, f.PageSize)
	return &result, nil
}

// ListPendingForNode returns the pending shares awaiting a node's decision
func (s *ShareService) ListPendingForNode(ctx context.Context, nodeID uuid.UUID) ([]ShareResponse, error) {
	shares, err := s.shares.FindPendingForNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	return ToShareResponses(shares), nil
}

// GetAuditTrail returns the audit entries recorded for a share
func (s *ShareService) GetAuditTrail(ctx context.Context, shareID uuid.UUID, filter ShareListFilter) (*shared.Paginated[AuditLogResponse], error) {
	f := s.toFilter(filter)
	entries, total, err := s.audits.FindByShare(ctx, shareID, f)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToAuditLogResponses(entries), total, f.Page, f.PageSize)
	return &result, nil
}

// CanNodeOrder reports whether a business unit may order a product: public
// products are open to everyone, private products require an approved
// share the unit participates in.
func (s *ShareService) CanNodeOrder(ctx context.Context, productID, nodeID uuid.UUID) (bool, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if !product.IsOrderable() {
		return false, nil
	}
	if product.Visibility == catalog.VisibilityPublic {
		return true, nil
	}

	// The share's target may sit anywhere above the unit, so resolve it
	// through the participant row rather than the target node.
	share, err := s.shares.FindApprovedForParticipant(ctx, productID, nodeID)
	if err != nil {
		if err == shared.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return share.IsParticipant(nodeID), nil
}

// checkDecisionScope verifies that a customer actor may decide on the
// share: their node must be the target node or one of its ancestors.
func (s *ShareService) checkDecisionScope(ctx context.Context, share *catalog.SkuShare, actor ShareActor) error {
	if actor.NodeID == nil {
		return nil
	}
	if *actor.NodeID == share.TargetNodeID {
		return nil
	}

	actorNode, err := s.nodes.FindByID(ctx, *actor.NodeID)
	if err != nil {
		return err
	}
	target, err := s.nodes.FindByID(ctx, share.TargetNodeID)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(target.Path, actorNode.Path) {
		return shared.ErrForbidden
	}
	return nil
}

func (s *ShareService) audit(ctx context.Context, share *catalog.SkuShare, action catalog.AuditAction, actor ShareActor, nodeID *uuid.UUID, detail string) error {
	actorID := actor.UserID
	entry, err := catalog.NewShareAuditLog(share, action, &actorID, nodeID, detail, actor.IP)
	if err != nil {
		return err
	}
	return s.audits.Save(ctx, entry)
}

func (s *ShareService) toFilter(filter ShareListFilter) shared.Filter {
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
	if filter.Status != "" {
		f.Filters["status"] = strings.ToUpper(filter.Status)
	}
	return f
}

func (s *ShareService) publishEvents(ctx context.Context, share *catalog.SkuShare) {
	events := share.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish share events",
			zap.String("share_id", share.ID.String()),
			zap.Error(err),
		)
	}
	share.ClearDomainEvents()
}
