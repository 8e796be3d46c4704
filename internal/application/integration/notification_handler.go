package integration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	notificationapp "github.com/orderhub/backend/internal/application/notification"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/notification"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// recipientPageSize caps how many users a single event fans out to
const recipientPageSize = 100

// Notifier fans a message out to a set of recipients
type Notifier interface {
	NotifyAll(ctx context.Context, recipientIDs []uuid.UUID, req notificationapp.CreateNotificationRequest) int
}

// NotificationHandler turns cross-context events into notifications for
// the people who need to act on them. Delivery failures are absorbed by
// the notification service, so handling never fails the event.
type NotificationHandler struct {
	notifier Notifier
	users    identity.UserRepository
	logger   *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier Notifier, users identity.UserRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		users:    users,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler reacts to
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderSubmitted,
		ordering.EventTypeOrderShipped,
		ordering.EventTypeOrderDisputed,
		ordering.EventTypeOrderCancelled,
		catalog.EventTypeShareRequested,
		catalog.EventTypeShareApproved,
		catalog.EventTypeShareRejected,
		catalog.EventTypeShareRevoked,
		billing.EventTypeStatementFinalized,
	}
}

// Handle fans one event out as notifications
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderSubmittedEvent:
		h.notifySupplier(ctx, e.SupplierID, notification.CategoryOrder,
			fmt.Sprintf("New order %s", e.OrderNumber),
			fmt.Sprintf("Order %s with %d item(s) totalling %s awaits confirmation.", e.OrderNumber, len(e.Items), e.TotalAmount.StringFixed(2)),
			"Order", e.OrderID)
	case *ordering.OrderShippedEvent:
		body := fmt.Sprintf("Order %s has shipped.", e.OrderNumber)
		if e.TrackingRef != "" {
			body = fmt.Sprintf("Order %s has shipped, tracking %s.", e.OrderNumber, e.TrackingRef)
		}
		h.notifyNode(ctx, e.NodeID, notification.CategoryOrder,
			fmt.Sprintf("Order %s shipped", e.OrderNumber), body, "Order", e.OrderID)
	case *ordering.OrderDisputedEvent:
		h.notifySupplier(ctx, e.SupplierID, notification.CategoryOrder,
			fmt.Sprintf("Order %s disputed", e.OrderNumber),
			fmt.Sprintf("Order %s was disputed: %s", e.OrderNumber, e.Reason),
			"Order", e.OrderID)
	case *ordering.OrderCancelledEvent:
		h.notifySupplier(ctx, e.SupplierID, notification.CategoryOrder,
			fmt.Sprintf("Order %s cancelled", e.OrderNumber),
			fmt.Sprintf("Order %s was cancelled: %s", e.OrderNumber, e.Reason),
			"Order", e.OrderID)
	case *catalog.ShareRequestedEvent:
		h.notifyNode(ctx, e.TargetNodeID, notification.CategoryShare,
			fmt.Sprintf("SKU %s offered", e.SKU),
			fmt.Sprintf("A supplier requested to share SKU %s with your organization.", e.SKU),
			"SkuShare", e.ShareID)
	case *catalog.ShareApprovedEvent:
		h.notifySupplier(ctx, e.SupplierID, notification.CategoryShare,
			fmt.Sprintf("SKU %s share approved", e.SKU),
			fmt.Sprintf("The share request for SKU %s was approved.", e.SKU),
			"SkuShare", e.ShareID)
	case *catalog.ShareRejectedEvent:
		body := fmt.Sprintf("The share request for SKU %s was rejected.", e.SKU)
		if e.Note != "" {
			body = fmt.Sprintf("The share request for SKU %s was rejected: %s", e.SKU, e.Note)
		}
		h.notifySupplier(ctx, e.SupplierID, notification.CategoryShare,
			fmt.Sprintf("SKU %s share rejected", e.SKU), body, "SkuShare", e.ShareID)
	case *catalog.ShareRevokedEvent:
		h.notifyNode(ctx, e.TargetNodeID, notification.CategoryShare,
			fmt.Sprintf("SKU %s share revoked", e.SKU),
			fmt.Sprintf("The share for SKU %s was revoked: %s", e.SKU, e.Reason),
			"SkuShare", e.ShareID)
	case *billing.StatementFinalizedEvent:
		h.emailSupplier(ctx, e.SupplierID, notification.CategoryBilling,
			"Settlement statement ready",
			fmt.Sprintf("Your settlement statement covering %d transaction(s) with a total fee of %s is ready.", e.TransactionCount, e.TotalFeeAmount.StringFixed(2)),
			"BillingStatement", e.StatementID)
	}
	return nil
}

func (h *NotificationHandler) notifySupplier(ctx context.Context, supplierID uuid.UUID, category notification.Category, subject, body, refType string, refID uuid.UUID) {
	h.fanOut(ctx, h.supplierRecipients(ctx, supplierID), notification.ChannelInApp, category, subject, body, refType, refID)
}

func (h *NotificationHandler) emailSupplier(ctx context.Context, supplierID uuid.UUID, category notification.Category, subject, body, refType string, refID uuid.UUID) {
	h.fanOut(ctx, h.supplierRecipients(ctx, supplierID), notification.ChannelEmail, category, subject, body, refType, refID)
}

func (h *NotificationHandler) notifyNode(ctx context.Context, nodeID uuid.UUID, category notification.Category, subject, body, refType string, refID uuid.UUID) {
	f := recipientFilter()
	users, _, err := h.users.FindByNode(ctx, nodeID, f)
	if err != nil {
		h.logger.Error("failed to resolve node recipients",
			zap.String("node_id", nodeID.String()),
			zap.Error(err),
		)
		return
	}
	h.fanOut(ctx, userIDs(users), notification.ChannelInApp, category, subject, body, refType, refID)
}

func (h *NotificationHandler) supplierRecipients(ctx context.Context, supplierID uuid.UUID) []uuid.UUID {
	f := recipientFilter()
	users, _, err := h.users.FindBySupplier(ctx, supplierID, f)
	if err != nil {
		h.logger.Error("failed to resolve supplier recipients",
			zap.String("supplier_id", supplierID.String()),
			zap.Error(err),
		)
		return nil
	}
	return userIDs(users)
}

func (h *NotificationHandler) fanOut(ctx context.Context, recipientIDs []uuid.UUID, channel notification.Channel, category notification.Category, subject, body, refType string, refID uuid.UUID) {
	if len(recipientIDs) == 0 {
		return
	}
	h.notifier.NotifyAll(ctx, recipientIDs, notificationapp.CreateNotificationRequest{
		Channel:  string(channel),
		Category: string(category),
		Subject:  subject,
		Body:     body,
		RefType:  refType,
		RefID:    &refID,
	})
}

func recipientFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.PageSize = recipientPageSize
	return f
}

func userIDs(users []identity.User) []uuid.UUID {
	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return ids
}

var _ shared.EventHandler = (*NotificationHandler)(nil)
