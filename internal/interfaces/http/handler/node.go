package handler

import (
	"context"

	hierarchyapp "github.com/orderhub/backend/internal/application/hierarchy"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NodeHandler exposes the customer hierarchy endpoints
type NodeHandler struct {
	BaseHandler
	nodes *hierarchyapp.NodeService
}

// NewNodeHandler creates a new NodeHandler
func NewNodeHandler(nodes *hierarchyapp.NodeService) *NodeHandler {
	return &NodeHandler{nodes: nodes}
}

// RegisterRoutes registers hierarchy routes on the given group
func (h *NodeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	nodes := rg.Group("/nodes")
	{
		nodes.GET("", h.List)
		nodes.GET("/roots", h.ListRoots)
		nodes.GET("/:id", h.GetByID)
		nodes.GET("/code/:code", h.GetByCode)
		nodes.GET("/:id/children", h.GetChildren)
		nodes.GET("/:id/ancestors", h.GetAncestors)
		nodes.GET("/:id/tree", h.GetTree)
		nodes.GET("/:id/settings", h.GetEffectiveSettings)

		admin := nodes.Group("", middleware.RequireRole(string(identity.RolePlatformAdmin)))
		{
			admin.POST("", h.Create)
			admin.POST("/bulk", h.BulkCreate)
			admin.POST("/bulk-move", h.BulkMove)
			admin.POST("/bulk-deactivate", h.BulkDeactivate)
			admin.PUT("/:id", h.Update)
			admin.POST("/:id/move", h.Move)
			admin.POST("/:id/activate", h.Activate)
			admin.POST("/:id/deactivate", h.Deactivate)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *NodeHandler) Create(c *gin.Context) {
	var req hierarchyapp.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	node, err := h.nodes.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, node)
}

func (h *NodeHandler) List(c *gin.Context) {
	var filter hierarchyapp.NodeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.nodes.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *NodeHandler) ListRoots(c *gin.Context) {
	var filter hierarchyapp.NodeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.nodes.ListRoots(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *NodeHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	node, err := h.nodes.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

func (h *NodeHandler) GetByCode(c *gin.Context) {
	node, err := h.nodes.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

func (h *NodeHandler) GetChildren(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	children, err := h.nodes.GetChildren(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, children)
}

func (h *NodeHandler) GetAncestors(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	ancestors, err := h.nodes.GetAncestors(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ancestors)
}

func (h *NodeHandler) BulkCreate(c *gin.Context) {
	var req hierarchyapp.BulkCreateNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.nodes.BulkCreate(c.Request.Context(), req))
}

func (h *NodeHandler) BulkMove(c *gin.Context) {
	var req hierarchyapp.BulkMoveNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.nodes.BulkMove(c.Request.Context(), req))
}

func (h *NodeHandler) BulkDeactivate(c *gin.Context) {
	var req hierarchyapp.BulkNodeIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.nodes.BulkDeactivate(c.Request.Context(), req))
}

func (h *NodeHandler) GetTree(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	tree, err := h.nodes.GetTree(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// GetEffectiveSettings returns the node's settings merged with every
// ancestor's, closest ancestor winning
func (h *NodeHandler) GetEffectiveSettings(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	settings, err := h.nodes.GetEffectiveSettings(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

func (h *NodeHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	var req hierarchyapp.UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	node, err := h.nodes.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

func (h *NodeHandler) Move(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	var req hierarchyapp.MoveNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	node, err := h.nodes.Move(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}

func (h *NodeHandler) Activate(c *gin.Context) {
	h.transition(c, h.nodes.Activate)
}

func (h *NodeHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.nodes.Deactivate)
}

func (h *NodeHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	if err := h.nodes.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *NodeHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*hierarchyapp.NodeResponse, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	node, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, node)
}
