package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// ShareStatus represents the status of a SKU share request
type ShareStatus string

const (
	ShareStatusPending   ShareStatus = "PENDING"
	ShareStatusApproved  ShareStatus = "APPROVED"
	ShareStatusRejected  ShareStatus = "REJECTED"
	ShareStatusCancelled ShareStatus = "CANCELLED"
	ShareStatusRevoked   ShareStatus = "REVOKED"
)

// IsValid checks if the status is a valid ShareStatus
func (s ShareStatus) IsValid() bool {
	switch s {
	case ShareStatusPending, ShareStatusApproved, ShareStatusRejected, ShareStatusCancelled, ShareStatusRevoked:
		return true
	}
	return false
}

// String returns the string representation of ShareStatus
func (s ShareStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShareStatus) CanTransitionTo(target ShareStatus) bool {
	switch s {
	case ShareStatusPending:
		return target == ShareStatusApproved || target == ShareStatusRejected || target == ShareStatusCancelled
	case ShareStatusApproved:
		return target == ShareStatusRevoked
	case ShareStatusRejected, ShareStatusCancelled, ShareStatusRevoked:
		return false
	}
	return false
}

// ShareParticipant records a business unit that has joined an approved
// share. Leaving a share keeps the row with LeftAt set for audit purposes.
type ShareParticipant struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShareID  uuid.UUID `gorm:"type:uuid;not null;index"`
	NodeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	JoinedBy uuid.UUID `gorm:"type:uuid;not null"`
	Active   bool      `gorm:"not null;default:true"`
	JoinedAt time.Time `gorm:"not null"`
	LeftAt   *time.Time
}

// TableName returns the database table name
func (ShareParticipant) TableName() string {
	return "sku_share_participants"
}

// SkuShare represents a supplier's offer of a private SKU to a customer
// hierarchy subtree. The target node's administrators approve or reject
// the offer; after approval, business units under the target node may
// join as participants and order the SKU.
type SkuShare struct {
	shared.BaseAggregateRoot
	ProductID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_sku_shares_product_node,unique"`
	SKU          string      `gorm:"not null;size:50"`
	SupplierID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	TargetNodeID uuid.UUID   `gorm:"type:uuid;not null;index:idx_sku_shares_product_node,unique"`
	Status       ShareStatus `gorm:"not null;size:20;index"`
	Message      string      `gorm:"size:500"`
	RequestedBy  uuid.UUID   `gorm:"type:uuid;not null"`
	DecidedBy    *uuid.UUID  `gorm:"type:uuid"`
	DecisionNote string      `gorm:"size:500"`
	DecidedAt    *time.Time
	RevokedAt    *time.Time

	Participants []ShareParticipant `gorm:"foreignKey:ShareID"`
}

// TableName returns the database table name
func (SkuShare) TableName() string {
	return "sku_shares"
}

// NewSkuShare creates a new pending share request for a product
func NewSkuShare(product *Product, targetNodeID, requestedBy uuid.UUID, message string) (*SkuShare, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if !product.IsOrderable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only active products can be shared")
	}
	if targetNodeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target node ID cannot be empty")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester ID cannot be empty")
	}
	if len(message) > 500 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 500 characters")
	}

	share := &SkuShare{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         product.ID,
		SKU:               product.SKU,
		SupplierID:        product.SupplierID,
		TargetNodeID:      targetNodeID,
		Status:            ShareStatusPending,
		Message:           message,
		RequestedBy:       requestedBy,
		Participants:      make([]ShareParticipant, 0),
	}

	share.AddDomainEvent(NewShareRequestedEvent(share))

	return share, nil
}

// Approve accepts the share on behalf of the target node
func (s *SkuShare) Approve(decidedBy uuid.UUID, note string) error {
	if !s.Status.CanTransitionTo(ShareStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", "Share cannot be approved from status "+s.Status.String())
	}
	if decidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_DECIDER", "Decider ID cannot be empty")
	}

	now := time.Now()
	s.Status = ShareStatusApproved
	s.DecidedBy = &decidedBy
	s.DecisionNote = note
	s.DecidedAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewShareApprovedEvent(s))

	return nil
}

// Reject declines the share on behalf of the target node
func (s *SkuShare) Reject(decidedBy uuid.UUID, note string) error {
	if !s.Status.CanTransitionTo(ShareStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", "Share cannot be rejected from status "+s.Status.String())
	}
	if decidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_DECIDER", "Decider ID cannot be empty")
	}

	now := time.Now()
	s.Status = ShareStatusRejected
	s.DecidedBy = &decidedBy
	s.DecisionNote = note
	s.DecidedAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewShareRejectedEvent(s))

	return nil
}

// Cancel withdraws a pending request. Only the owning supplier side may
// cancel; the check against RequestedBy's supplier happens in the service.
func (s *SkuShare) Cancel() error {
	if !s.Status.CanTransitionTo(ShareStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Share cannot be cancelled from status "+s.Status.String())
	}

	s.Status = ShareStatusCancelled
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewShareCancelledEvent(s))

	return nil
}

// Revoke withdraws an approved share. All active participants are
// deactivated; their open orders are not affected.
func (s *SkuShare) Revoke(reason string) error {
	if !s.Status.CanTransitionTo(ShareStatusRevoked) {
		return shared.NewDomainError("INVALID_STATE", "Share cannot be revoked from status "+s.Status.String())
	}

	now := time.Now()
	s.Status = ShareStatusRevoked
	s.DecisionNote = reason
	s.RevokedAt = &now
	s.UpdatedAt = now

	for i := range s.Participants {
		if s.Participants[i].Active {
			s.Participants[i].Active = false
			s.Participants[i].LeftAt = &now
		}
	}

	s.AddDomainEvent(NewShareRevokedEvent(s, reason))

	return nil
}

// Join enrolls a business unit as an active participant of the share
func (s *SkuShare) Join(nodeID, joinedBy uuid.UUID) (*ShareParticipant, error) {
	if s.Status != ShareStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Only approved shares can be joined")
	}
	if nodeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_NODE", "Node ID cannot be empty")
	}

	for i := range s.Participants {
		if s.Participants[i].NodeID == nodeID && s.Participants[i].Active {
			return nil, shared.NewDomainError("ALREADY_PARTICIPATING", "Node already participates in this share")
		}
	}

	now := time.Now()
	participant := ShareParticipant{
		ID:       uuid.New(),
		ShareID:  s.ID,
		NodeID:   nodeID,
		JoinedBy: joinedBy,
		Active:   true,
		JoinedAt: now,
	}
	s.Participants = append(s.Participants, participant)
	s.UpdatedAt = now
	s.AddDomainEvent(NewShareJoinedEvent(s, nodeID))

	return &s.Participants[len(s.Participants)-1], nil
}

// Leave deactivates a business unit's participation
func (s *SkuShare) Leave(nodeID uuid.UUID) error {
	for i := range s.Participants {
		if s.Participants[i].NodeID == nodeID && s.Participants[i].Active {
			now := time.Now()
			s.Participants[i].Active = false
			s.Participants[i].LeftAt = &now
			s.UpdatedAt = now
			s.AddDomainEvent(NewShareLeftEvent(s, nodeID))
			return nil
		}
	}
	return shared.NewDomainError("NOT_PARTICIPATING", "Node does not participate in this share")
}

// IsParticipant returns true if the node is an active participant
func (s *SkuShare) IsParticipant(nodeID uuid.UUID) bool {
	for i := range s.Participants {
		if s.Participants[i].NodeID == nodeID && s.Participants[i].Active {
			return true
		}
	}
	return false
}

// ActiveParticipantCount returns the number of active participants
func (s *SkuShare) ActiveParticipantCount() int {
	count := 0
	for i := range s.Participants {
		if s.Participants[i].Active {
			count++
		}
	}
	return count
}
