package handler

import (
	orderingapp "github.com/orderhub/backend/internal/application/ordering"
	"github.com/gin-gonic/gin"
)

// AcceptanceHandler exposes the receiving workflow endpoints
type AcceptanceHandler struct {
	BaseHandler
	acceptances *orderingapp.AcceptanceService
}

// NewAcceptanceHandler creates a new AcceptanceHandler
func NewAcceptanceHandler(acceptances *orderingapp.AcceptanceService) *AcceptanceHandler {
	return &AcceptanceHandler{acceptances: acceptances}
}

// RegisterRoutes registers acceptance routes on the given group
func (h *AcceptanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	acceptances := rg.Group("/acceptances")
	{
		acceptances.GET("", h.List)
		acceptances.GET("/:id", h.GetByID)
		acceptances.POST("/:id/lines", h.RecordLine)
		acceptances.POST("/:id/photos/upload-url", h.GeneratePhotoUploadURL)
		acceptances.POST("/:id/photos", h.AttachPhoto)
		acceptances.GET("/:id/photos/:photoId/download-url", h.GetPhotoDownloadURL)
		acceptances.POST("/:id/complete", h.Complete)
	}
	rg.GET("/orders/:id/acceptance", h.GetByOrder)
}

func (h *AcceptanceHandler) List(c *gin.Context) {
	var filter orderingapp.AcceptanceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.acceptances.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *AcceptanceHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid acceptance ID")
		return
	}

	acceptance, err := h.acceptances.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acceptance)
}

func (h *AcceptanceHandler) GetByOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	acceptance, err := h.acceptances.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acceptance)
}

// RecordLine records accepted and rejected quantities for one order item
func (h *AcceptanceHandler) RecordLine(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid acceptance ID")
		return
	}

	var req orderingapp.RecordLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	acceptance, err := h.acceptances.RecordLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acceptance)
}

func (h *AcceptanceHandler) GeneratePhotoUploadURL(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid acceptance ID")
		return
	}

	var req orderingapp.PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	url, err := h.acceptances.GeneratePhotoUploadURL(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

func (h *AcceptanceHandler) AttachPhoto(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid acceptance ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderingapp.AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	acceptance, err := h.acceptances.AttachPhoto(c.Request.Context(), id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acceptance)
}

func (h *AcceptanceHandler) GetPhotoDownloadURL(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid acceptance ID")
		return
	}
	photoID, err := parseIDParam(c, "photoId")
	if err != nil {
		h.BadRequest(c, "Invalid photo ID")
		return
	}

	url, err := h.acceptances.GetPhotoDownloadURL(c.Request.Context(), id, photoID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

// Complete closes the acceptance record. Every line must be recorded
// first.
func (h *AcceptanceHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid acceptance ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderingapp.CompleteAcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	acceptance, err := h.acceptances.Complete(c.Request.Context(), id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acceptance)
}
