package handler

import (
	"context"
	"net/http"

	billingapp "github.com/orderhub/backend/internal/application/billing"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/infrastructure/scheduler"
	"github.com/orderhub/backend/internal/interfaces/http/dto"
	"github.com/orderhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BillingHandler exposes rate configuration, transaction and statement
// endpoints
type BillingHandler struct {
	BaseHandler
	rateConfigs  *billingapp.RateConfigService
	transactions *billingapp.TransactionService
	settlements  *billingapp.SettlementService
	scheduler    *scheduler.SettlementScheduler
}

// NewBillingHandler creates a new BillingHandler. The scheduler is nil
// in binaries that do not run settlement, which hides the settlement
// admin endpoints.
func NewBillingHandler(
	rateConfigs *billingapp.RateConfigService,
	transactions *billingapp.TransactionService,
	settlements *billingapp.SettlementService,
	settlementScheduler *scheduler.SettlementScheduler,
) *BillingHandler {
	return &BillingHandler{
		rateConfigs:  rateConfigs,
		transactions: transactions,
		settlements:  settlements,
		scheduler:    settlementScheduler,
	}
}

// RegisterRoutes registers billing routes on the given group. Rate
// configuration is platform admin only.
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	configs := rg.Group("/billing/rate-configs", middleware.RequireRole(string(identity.RolePlatformAdmin)))
	{
		configs.POST("", h.CreateRateConfig)
		configs.GET("", h.ListRateConfigs)
		configs.GET("/:id", h.GetRateConfig)
		configs.POST("/:id/tiers", h.AddTier)
		configs.DELETE("/:id/tiers/:tierId", h.RemoveTier)
		configs.PUT("/:id/promo", h.SetPromo)
		configs.DELETE("/:id/promo", h.ClearPromo)
		configs.POST("/:id/activate", h.ActivateRateConfig)
		configs.POST("/:id/deactivate", h.DeactivateRateConfig)
	}

	transactions := rg.Group("/billing/transactions")
	{
		transactions.GET("", h.ListTransactions)
		transactions.GET("/:id", h.GetTransaction)
		transactions.GET("/order/:orderId", h.GetTransactionByOrder)
		transactions.POST("/:id/void", middleware.RequireRole(string(identity.RolePlatformAdmin)), h.VoidTransaction)
	}

	rg.GET("/billing/summary", middleware.RequireRole(string(identity.RolePlatformAdmin)), h.Summary)

	statements := rg.Group("/billing/statements")
	{
		statements.GET("/:id", h.GetStatement)
		statements.GET("/:id/transactions", h.GetStatementTransactions)
		statements.GET("/supplier/:supplierId", h.ListStatements)
	}

	if h.scheduler != nil {
		settlement := rg.Group("/billing/settlement", middleware.RequireRole(string(identity.RolePlatformAdmin)))
		{
			settlement.POST("/trigger", h.TriggerSettlement)
			settlement.POST("/trigger/supplier/:supplierId", h.TriggerSupplierSettlement)
			settlement.GET("/status", h.SettlementStatus)
		}
	}
}

// TriggerSettlement starts a full settlement pass outside the schedule
func (h *BillingHandler) TriggerSettlement(c *gin.Context) {
	if err := h.scheduler.TriggerNow(); err != nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, err.Error())
		return
	}
	h.Success(c, gin.H{"triggered": true})
}

// TriggerSupplierSettlement submits a settlement job for one supplier
func (h *BillingHandler) TriggerSupplierSettlement(c *gin.Context) {
	supplierID, err := parseIDParam(c, "supplierId")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}
	if err := h.scheduler.TriggerSupplier(supplierID); err != nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, err.Error())
		return
	}
	h.Success(c, gin.H{"triggered": true})
}

// SettlementStatus reports the scheduler state and run timestamps
func (h *BillingHandler) SettlementStatus(c *gin.Context) {
	h.Success(c, h.scheduler.GetStatus())
}

func (h *BillingHandler) CreateRateConfig(c *gin.Context) {
	var req billingapp.CreateRateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	config, err := h.rateConfigs.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, config)
}

func (h *BillingHandler) ListRateConfigs(c *gin.Context) {
	var filter billingapp.RateConfigListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.rateConfigs.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *BillingHandler) GetRateConfig(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rate config ID")
		return
	}

	config, err := h.rateConfigs.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, config)
}

func (h *BillingHandler) AddTier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rate config ID")
		return
	}

	var req billingapp.AddTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	config, err := h.rateConfigs.AddTier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, config)
}

func (h *BillingHandler) RemoveTier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rate config ID")
		return
	}
	tierID, err := parseIDParam(c, "tierId")
	if err != nil {
		h.BadRequest(c, "Invalid tier ID")
		return
	}

	config, err := h.rateConfigs.RemoveTier(c.Request.Context(), id, tierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, config)
}

func (h *BillingHandler) SetPromo(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rate config ID")
		return
	}

	var req billingapp.SetPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	config, err := h.rateConfigs.SetPromo(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, config)
}

func (h *BillingHandler) ClearPromo(c *gin.Context) {
	h.configTransition(c, h.rateConfigs.ClearPromo)
}

func (h *BillingHandler) ActivateRateConfig(c *gin.Context) {
	h.configTransition(c, h.rateConfigs.Activate)
}

func (h *BillingHandler) DeactivateRateConfig(c *gin.Context) {
	h.configTransition(c, h.rateConfigs.Deactivate)
}

func (h *BillingHandler) configTransition(c *gin.Context, apply func(ctx context.Context, configID uuid.UUID) (*billingapp.RateConfigResponse, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rate config ID")
		return
	}

	config, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, config)
}

func (h *BillingHandler) ListTransactions(c *gin.Context) {
	var filter billingapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.transactions.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *BillingHandler) GetTransaction(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactions.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

func (h *BillingHandler) GetTransactionByOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	tx, err := h.transactions.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// VoidTransaction voids an unsettled transaction
func (h *BillingHandler) VoidTransaction(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req billingapp.VoidTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.transactions.Void(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

func (h *BillingHandler) Summary(c *gin.Context) {
	summary, err := h.transactions.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func (h *BillingHandler) GetStatement(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	statement, err := h.settlements.GetStatement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

func (h *BillingHandler) GetStatementTransactions(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	transactions, err := h.settlements.GetStatementTransactions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transactions)
}

func (h *BillingHandler) ListStatements(c *gin.Context) {
	supplierID, err := parseIDParam(c, "supplierId")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var filter billingapp.StatementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.settlements.ListStatements(c.Request.Context(), supplierID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
