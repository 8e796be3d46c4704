package catalog

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// AuditAction represents an action recorded in the share audit trail
type AuditAction string

const (
	AuditActionRequested AuditAction = "REQUESTED"
	AuditActionApproved  AuditAction = "APPROVED"
	AuditActionRejected  AuditAction = "REJECTED"
	AuditActionCancelled AuditAction = "CANCELLED"
	AuditActionRevoked   AuditAction = "REVOKED"
	AuditActionJoined    AuditAction = "JOINED"
	AuditActionLeft      AuditAction = "LEFT"
)

// IsValid checks if the action is a valid AuditAction
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionRequested, AuditActionApproved, AuditActionRejected,
		AuditActionCancelled, AuditActionRevoked, AuditActionJoined, AuditActionLeft:
		return true
	}
	return false
}

// ShareAuditLog is an append-only record of every decision taken on a SKU
// share. Entries are never updated or deleted.
type ShareAuditLog struct {
	shared.BaseEntity
	ShareID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"share_id"`
	ProductID uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU       string      `gorm:"not null;size:50" json:"sku"`
	Action    AuditAction `gorm:"not null;size:20" json:"action"`
	ActorID   *uuid.UUID  `gorm:"type:uuid" json:"actor_id,omitempty"`
	NodeID    *uuid.UUID  `gorm:"type:uuid" json:"node_id,omitempty"`
	Detail    string      `gorm:"size:500" json:"detail,omitempty"`
	IPAddress string      `gorm:"size:45" json:"ip_address,omitempty"`
}

// TableName returns the database table name
func (ShareAuditLog) TableName() string {
	return "sku_share_audit_logs"
}

// NewShareAuditLog creates a new audit log entry for a share action
func NewShareAuditLog(share *SkuShare, action AuditAction, actorID, nodeID *uuid.UUID, detail, ipAddress string) (*ShareAuditLog, error) {
	if share == nil {
		return nil, shared.NewDomainError("INVALID_SHARE", "Share is required")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid audit action")
	}

	return &ShareAuditLog{
		BaseEntity: shared.NewBaseEntity(),
		ShareID:    share.ID,
		ProductID:  share.ProductID,
		SKU:        share.SKU,
		Action:     action,
		ActorID:    actorID,
		NodeID:     nodeID,
		Detail:     detail,
		IPAddress:  ipAddress,
	}, nil
}
