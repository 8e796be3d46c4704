package hierarchy

import (
	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeNode = "HierarchyNode"

// Event type constants
const (
	EventTypeNodeCreated     = "HierarchyNodeCreated"
	EventTypeNodeUpdated     = "HierarchyNodeUpdated"
	EventTypeNodeMoved       = "HierarchyNodeMoved"
	EventTypeNodeDeactivated = "HierarchyNodeDeactivated"
	EventTypeNodeActivated   = "HierarchyNodeActivated"
)

// NodeCreatedEvent is raised when a new hierarchy node is created
type NodeCreatedEvent struct {
	shared.BaseDomainEvent
	NodeID   uuid.UUID  `json:"node_id"`
	Name     string     `json:"name"`
	Code     string     `json:"code"`
	Level    NodeLevel  `json:"level"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Path     string     `json:"path"`
}

// NewNodeCreatedEvent creates a new NodeCreatedEvent
func NewNodeCreatedEvent(node *Node) *NodeCreatedEvent {
	return &NodeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNodeCreated, AggregateTypeNode, node.ID),
		NodeID:          node.ID,
		Name:            node.Name,
		Code:            node.Code,
		Level:           node.Level,
		ParentID:        node.ParentID,
		Path:            node.Path,
	}
}

// EventType returns the event type name
func (e *NodeCreatedEvent) EventType() string {
	return EventTypeNodeCreated
}

// NodeUpdatedEvent is raised when a node's name or settings change
type NodeUpdatedEvent struct {
	shared.BaseDomainEvent
	NodeID   uuid.UUID `json:"node_id"`
	Name     string    `json:"name"`
	Settings Settings  `json:"settings"`
}

// NewNodeUpdatedEvent creates a new NodeUpdatedEvent
func NewNodeUpdatedEvent(node *Node) *NodeUpdatedEvent {
	return &NodeUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNodeUpdated, AggregateTypeNode, node.ID),
		NodeID:          node.ID,
		Name:            node.Name,
		Settings:        node.Settings,
	}
}

// EventType returns the event type name
func (e *NodeUpdatedEvent) EventType() string {
	return EventTypeNodeUpdated
}

// NodeMovedEvent is raised when a node is reparented.
// OldPath is the subtree prefix before the move; descendants with paths
// under OldPath must be rewritten to the new path.
type NodeMovedEvent struct {
	shared.BaseDomainEvent
	NodeID   uuid.UUID  `json:"node_id"`
	ParentID *uuid.UUID `json:"parent_id"`
	OldPath  string     `json:"old_path"`
	NewPath  string     `json:"new_path"`
}

// NewNodeMovedEvent creates a new NodeMovedEvent
func NewNodeMovedEvent(node *Node, oldPath string) *NodeMovedEvent {
	return &NodeMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNodeMoved, AggregateTypeNode, node.ID),
		NodeID:          node.ID,
		ParentID:        node.ParentID,
		OldPath:         oldPath,
		NewPath:         node.Path,
	}
}

// EventType returns the event type name
func (e *NodeMovedEvent) EventType() string {
	return EventTypeNodeMoved
}

// NodeDeactivatedEvent is raised when a node is deactivated.
// Ordering contexts listen for this to block new orders under the subtree.
type NodeDeactivatedEvent struct {
	shared.BaseDomainEvent
	NodeID uuid.UUID `json:"node_id"`
	Level  NodeLevel `json:"level"`
	Path   string    `json:"path"`
}

// NewNodeDeactivatedEvent creates a new NodeDeactivatedEvent
func NewNodeDeactivatedEvent(node *Node) *NodeDeactivatedEvent {
	return &NodeDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNodeDeactivated, AggregateTypeNode, node.ID),
		NodeID:          node.ID,
		Level:           node.Level,
		Path:            node.Path,
	}
}

// EventType returns the event type name
func (e *NodeDeactivatedEvent) EventType() string {
	return EventTypeNodeDeactivated
}

// NodeActivatedEvent is raised when a node is reactivated
type NodeActivatedEvent struct {
	shared.BaseDomainEvent
	NodeID uuid.UUID `json:"node_id"`
	Level  NodeLevel `json:"level"`
	Path   string    `json:"path"`
}

// NewNodeActivatedEvent creates a new NodeActivatedEvent
func NewNodeActivatedEvent(node *Node) *NodeActivatedEvent {
	return &NodeActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNodeActivated, AggregateTypeNode, node.ID),
		NodeID:          node.ID,
		Level:           node.Level,
		Path:            node.Path,
	}
}

// EventType returns the event type name
func (e *NodeActivatedEvent) EventType() string {
	return EventTypeNodeActivated
}
