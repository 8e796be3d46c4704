package handler

import (
	"context"

	catalogapp "github.com/orderhub/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShareHandler exposes the SKU share approval workflow endpoints
type ShareHandler struct {
	BaseHandler
	shares *catalogapp.ShareService
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shares *catalogapp.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

// RegisterRoutes registers share routes on the given group
func (h *ShareHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shares := rg.Group("/shares")
	{
		shares.POST("", h.Request)
		shares.GET("/:id", h.GetByID)
		shares.GET("/:id/audit", h.GetAuditTrail)
		shares.POST("/:id/approve", h.Approve)
		shares.POST("/:id/reject", h.Reject)
		shares.POST("/:id/cancel", h.Cancel)
		shares.POST("/:id/revoke", h.Revoke)
		shares.POST("/:id/join", h.Join)
		shares.POST("/:id/leave", h.Leave)

		shares.GET("/supplier/:id", h.ListBySupplier)
		shares.GET("/node/:id", h.ListByTargetNode)
		shares.GET("/node/:id/pending", h.ListPendingForNode)
	}
	rg.GET("/products/:id/orderable", h.CanNodeOrder)
}

// shareActor builds the audited actor from the authenticated claims
func (h *ShareHandler) shareActor(c *gin.Context) (catalogapp.ShareActor, bool) {
	claims, err := getClaims(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return catalogapp.ShareActor{}, false
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return catalogapp.ShareActor{}, false
	}
	supplierID, _ := claims.GetSupplierUUID()
	nodeID, _ := claims.GetNodeUUID()

	return catalogapp.ShareActor{
		UserID:     userID,
		SupplierID: supplierID,
		NodeID:     nodeID,
		IP:         c.ClientIP(),
	}, true
}

func (h *ShareHandler) Request(c *gin.Context) {
	actor, ok := h.shareActor(c)
	if !ok {
		return
	}

	var req catalogapp.RequestShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	share, err := h.shares.Request(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, share)
}

func (h *ShareHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}

	share, err := h.shares.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

// GetAuditTrail returns the append-only audit log for a share
func (h *ShareHandler) GetAuditTrail(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}

	var filter catalogapp.ShareListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.shares.GetAuditTrail(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *ShareHandler) Approve(c *gin.Context) {
	h.decide(c, h.shares.Approve)
}

func (h *ShareHandler) Reject(c *gin.Context) {
	h.decide(c, h.shares.Reject)
}

func (h *ShareHandler) decide(c *gin.Context, apply func(ctx context.Context, shareID uuid.UUID, actor catalogapp.ShareActor, req catalogapp.DecideShareRequest) (*catalogapp.ShareResponse, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}
	actor, ok := h.shareActor(c)
	if !ok {
		return
	}

	var req catalogapp.DecideShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	share, err := apply(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

func (h *ShareHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}
	actor, ok := h.shareActor(c)
	if !ok {
		return
	}

	share, err := h.shares.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

func (h *ShareHandler) Revoke(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}
	actor, ok := h.shareActor(c)
	if !ok {
		return
	}

	var req catalogapp.RevokeShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	share, err := h.shares.Revoke(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

func (h *ShareHandler) Join(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}
	actor, ok := h.shareActor(c)
	if !ok {
		return
	}

	var req catalogapp.JoinShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	share, err := h.shares.Join(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

// LeaveShareRequest identifies the participant node leaving a share
type LeaveShareRequest struct {
	NodeID uuid.UUID `json:"node_id" binding:"required"`
}

func (h *ShareHandler) Leave(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid share ID")
		return
	}
	actor, ok := h.shareActor(c)
	if !ok {
		return
	}

	var req LeaveShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	share, err := h.shares.Leave(c.Request.Context(), id, actor, req.NodeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

func (h *ShareHandler) ListBySupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var filter catalogapp.ShareListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.shares.ListBySupplier(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *ShareHandler) ListByTargetNode(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	var filter catalogapp.ShareListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.shares.ListByTargetNode(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *ShareHandler) ListPendingForNode(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	shares, err := h.shares.ListPendingForNode(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shares)
}

// CanNodeOrderResponse reports whether a node may order a product
type CanNodeOrderResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	NodeID    uuid.UUID `json:"node_id"`
	Orderable bool      `json:"orderable"`
}

// CanNodeOrder checks product visibility for a node, walking up the
// node's ancestor chain for approved shares
func (h *ShareHandler) CanNodeOrder(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	nodeID, err := uuid.Parse(c.Query("node_id"))
	if err != nil {
		h.BadRequest(c, "Invalid node ID")
		return
	}

	orderable, err := h.shares.CanNodeOrder(c.Request.Context(), productID, nodeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CanNodeOrderResponse{ProductID: productID, NodeID: nodeID, Orderable: orderable})
}
