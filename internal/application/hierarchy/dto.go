package hierarchy

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/hierarchy"
)

// CreateNodeRequest is the request to create a hierarchy node.
// Omit ParentID to create a new group at the top of a hierarchy.
type CreateNodeRequest struct {
	Name        string            `json:"name" binding:"required,max=200"`
	Code        string            `json:"code" binding:"required,max=50"`
	ParentID    *uuid.UUID        `json:"parent_id"`
	Settings    map[string]string `json:"settings"`
	ExternalRef string            `json:"external_ref" binding:"max=100"`
	Remark      string            `json:"remark" binding:"max=500"`
}

// UpdateNodeRequest is the request to update a node
type UpdateNodeRequest struct {
	Name        *string            `json:"name" binding:"omitempty,max=200"`
	Settings    *map[string]string `json:"settings"`
	ExternalRef *string            `json:"external_ref" binding:"omitempty,max=100"`
	Remark      *string            `json:"remark" binding:"omitempty,max=500"`
}

// MoveNodeRequest is the request to reparent a node
type MoveNodeRequest struct {
	NewParentID uuid.UUID `json:"new_parent_id" binding:"required"`
}

// BulkNodeItem is one node in a bulk create request
type BulkNodeItem struct {
	Name string `json:"name" binding:"required,max=200"`
	Code string `json:"code" binding:"required,max=50"`
}

// BulkCreateNodesRequest creates several children under one parent
type BulkCreateNodesRequest struct {
	ParentID uuid.UUID      `json:"parent_id" binding:"required"`
	Nodes    []BulkNodeItem `json:"nodes" binding:"required,min=1,max=100,dive"`
}

// BulkMoveNodesRequest reparents several nodes under a new parent
type BulkMoveNodesRequest struct {
	NewParentID uuid.UUID   `json:"new_parent_id" binding:"required"`
	NodeIDs     []uuid.UUID `json:"node_ids" binding:"required,min=1,max=100"`
}

// BulkNodeIDsRequest carries the node IDs for a bulk status change
type BulkNodeIDsRequest struct {
	NodeIDs []uuid.UUID `json:"node_ids" binding:"required,min=1,max=100"`
}

// BulkNodeResult reports the outcome of one item in a bulk operation.
// Items fail independently; the batch never rolls back siblings.
type BulkNodeResult struct {
	Code    string     `json:"code,omitempty"`
	NodeID  *uuid.UUID `json:"node_id,omitempty"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
}

// NodeListFilter holds the filters for listing nodes
type NodeListFilter struct {
	Level    string `form:"level"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// NodeResponse is the API representation of a hierarchy node
type NodeResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Code        string            `json:"code"`
	Level       string            `json:"level"`
	ParentID    *uuid.UUID        `json:"parent_id,omitempty"`
	Path        string            `json:"path"`
	Active      bool              `json:"active"`
	Settings    map[string]string `json:"settings"`
	ExternalRef string            `json:"external_ref,omitempty"`
	Remark      string            `json:"remark,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NodeTreeResponse is a node with its children, for tree views
type NodeTreeResponse struct {
	NodeResponse
	Children []*NodeTreeResponse `json:"children"`
}

// EffectiveSettingsResponse is the resolved configuration of a node after
// walking its ancestor chain
type EffectiveSettingsResponse struct {
	NodeID   uuid.UUID         `json:"node_id"`
	Settings map[string]string `json:"settings"`
}

// ToNodeResponse converts a node aggregate to its API representation
func ToNodeResponse(n *hierarchy.Node) NodeResponse {
	settings := n.Settings
	if settings == nil {
		settings = hierarchy.Settings{}
	}
	return NodeResponse{
		ID:          n.ID,
		Name:        n.Name,
		Code:        n.Code,
		Level:       n.Level.String(),
		ParentID:    n.ParentID,
		Path:        n.Path,
		Active:      n.Active,
		Settings:    settings,
		ExternalRef: n.ExternalRef,
		Remark:      n.Remark,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// ToNodeResponses converts a slice of nodes
func ToNodeResponses(nodes []hierarchy.Node) []NodeResponse {
	responses := make([]NodeResponse, len(nodes))
	for i := range nodes {
		responses[i] = ToNodeResponse(&nodes[i])
	}
	return responses
}

// BuildTree assembles a subtree slice (ordered by path) into a nested tree.
// The first node whose path is a prefix of all others becomes the root.
func BuildTree(nodes []hierarchy.Node) *NodeTreeResponse {
	if len(nodes) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*NodeTreeResponse, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &NodeTreeResponse{
			NodeResponse: ToNodeResponse(&nodes[i]),
			Children:     make([]*NodeTreeResponse, 0),
		}
	}

	var root *NodeTreeResponse
	for i := range nodes {
		entry := byID[nodes[i].ID]
		if nodes[i].ParentID != nil {
			if parent, ok := byID[*nodes[i].ParentID]; ok {
				parent.Children = append(parent.Children, entry)
				continue
			}
		}
		if root == nil {
			root = entry
		}
	}
	return root
}
