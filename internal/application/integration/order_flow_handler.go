// Package integration wires the bounded contexts together through domain
// events: delivered orders open receiving records, completed receiving
// accepts or disputes the order, closed orders open billing transactions,
// and notable events fan out as notifications.
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/orderhub/backend/internal/application/billing"
	orderingapp "github.com/orderhub/backend/internal/application/ordering"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AcceptanceOpener opens receiving records for delivered orders
type AcceptanceOpener interface {
	Open(ctx context.Context, orderID uuid.UUID) (*orderingapp.AcceptanceResponse, error)
}

// OrderTransitioner advances orders through the post-delivery states
type OrderTransitioner interface {
	Accept(ctx context.Context, orderID uuid.UUID) (*orderingapp.OrderResponse, error)
	Dispute(ctx context.Context, orderID uuid.UUID, req orderingapp.DisputeOrderRequest) (*orderingapp.OrderResponse, error)
	Close(ctx context.Context, orderID uuid.UUID) (*orderingapp.OrderResponse, error)
}

// TransactionCreator opens commission transactions for closed orders
type TransactionCreator interface {
	CreateForClosedOrder(ctx context.Context, input billingapp.ClosedOrderInput) (*billingapp.TransactionResponse, error)
}

// OrderFlowHandler drives the order lifecycle across contexts. Every
// reaction is idempotent on the target service, and the handler
// additionally dedupes redelivered events by event ID.
type OrderFlowHandler struct {
	orders       OrderTransitioner
	acceptances  AcceptanceOpener
	transactions TransactionCreator
	idempotency  shared.IdempotencyStore
	ttl          time.Duration
	logger       *zap.Logger
}

// NewOrderFlowHandler creates a new OrderFlowHandler
func NewOrderFlowHandler(
	orders OrderTransitioner,
	acceptances AcceptanceOpener,
	transactions TransactionCreator,
	idempotency shared.IdempotencyStore,
	cfg shared.IdempotencyConfig,
	logger *zap.Logger,
) *OrderFlowHandler {
	return &OrderFlowHandler{
		orders:       orders,
		acceptances:  acceptances,
		transactions: transactions,
		idempotency:  idempotency,
		ttl:          cfg.TTL,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler reacts to
func (h *OrderFlowHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderDelivered,
		ordering.EventTypeAcceptanceCompleted,
		ordering.EventTypeOrderAccepted,
		ordering.EventTypeOrderClosed,
	}
}

// Handle processes one lifecycle event
func (h *OrderFlowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fresh, err := h.idempotency.MarkProcessed(ctx, event.EventID().String(), h.ttl)
	if err != nil {
		return err
	}
	if !fresh {
		h.logger.Debug("skipping already processed event",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	switch e := event.(type) {
	case *ordering.OrderDeliveredEvent:
		_, err := h.acceptances.Open(ctx, e.OrderID)
		return err
	case *ordering.AcceptanceCompletedEvent:
		return h.settleAcceptance(ctx, e)
	case *ordering.OrderAcceptedEvent:
		_, err := h.orders.Close(ctx, e.OrderID)
		return h.tolerateInvalidState(err, e.OrderID)
	case *ordering.OrderClosedEvent:
		_, err := h.transactions.CreateForClosedOrder(ctx, billingapp.ClosedOrderInput{
			OrderID:     e.OrderID,
			OrderNumber: e.OrderNumber,
			SupplierID:  e.SupplierID,
			NodeID:      e.NodeID,
			OrderAmount: e.TotalAmount,
		})
		return err
	default:
		return nil
	}
}

func (h *OrderFlowHandler) settleAcceptance(ctx context.Context, e *ordering.AcceptanceCompletedEvent) error {
	if e.HasRejections {
		_, err := h.orders.Dispute(ctx, e.OrderID, orderingapp.DisputeOrderRequest{
			Reason: rejectionSummary(e),
		})
		return h.tolerateInvalidState(err, e.OrderID)
	}
	_, err := h.orders.Accept(ctx, e.OrderID)
	return h.tolerateInvalidState(err, e.OrderID)
}

// tolerateInvalidState swallows INVALID_STATE errors so a redelivered
// event for an order that has already moved on does not poison the queue
func (h *OrderFlowHandler) tolerateInvalidState(err error, orderID uuid.UUID) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == "INVALID_STATE" {
		h.logger.Info("order already transitioned, ignoring event",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil
	}
	return err
}

func rejectionSummary(e *ordering.AcceptanceCompletedEvent) string {
	rejected := 0
	for _, line := range e.Lines {
		if line.RejectedQty.IsPositive() || line.AcceptedQty.LessThan(line.ExpectedQty) {
			rejected++
		}
	}
	return fmt.Sprintf("Receiving for %s recorded rejections or shortfalls on %d line(s)", e.OrderNumber, rejected)
}

var _ shared.EventHandler = (*OrderFlowHandler)(nil)
