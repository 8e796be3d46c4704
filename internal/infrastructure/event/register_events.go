package event

import (
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/partner"
)

// RegisterAllEvents registers every domain event type so outbox payloads
// can be deserialized back into concrete events. New event types must be
// added here or the processor will dead-letter them.
func RegisterAllEvents(s *EventSerializer) {
	// hierarchy
	s.Register(hierarchy.EventTypeNodeCreated, &hierarchy.NodeCreatedEvent{})
	s.Register(hierarchy.EventTypeNodeUpdated, &hierarchy.NodeUpdatedEvent{})
	s.Register(hierarchy.EventTypeNodeMoved, &hierarchy.NodeMovedEvent{})
	s.Register(hierarchy.EventTypeNodeDeactivated, &hierarchy.NodeDeactivatedEvent{})
	s.Register(hierarchy.EventTypeNodeActivated, &hierarchy.NodeActivatedEvent{})

	// partner
	s.Register(partner.EventTypeSupplierCreated, &partner.SupplierCreatedEvent{})
	s.Register(partner.EventTypeSupplierUpdated, &partner.SupplierUpdatedEvent{})
	s.Register(partner.EventTypeSupplierActivated, &partner.SupplierActivatedEvent{})
	s.Register(partner.EventTypeSupplierBlocked, &partner.SupplierBlockedEvent{})
	s.Register(partner.EventTypeSupplierOffboarded, &partner.SupplierOffboardedEvent{})

	// identity
	s.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	s.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	s.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})
	s.Register(identity.EventTypeUserLocked, &identity.UserLockedEvent{})

	// catalog
	s.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	s.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	s.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	s.Register(catalog.EventTypeProductActivated, &catalog.ProductActivatedEvent{})
	s.Register(catalog.EventTypeProductDiscontinued, &catalog.ProductDiscontinuedEvent{})
	s.Register(catalog.EventTypeProductVisibilityChanged, &catalog.ProductVisibilityChangedEvent{})
	s.Register(catalog.EventTypeShareRequested, &catalog.ShareRequestedEvent{})
	s.Register(catalog.EventTypeShareApproved, &catalog.ShareApprovedEvent{})
	s.Register(catalog.EventTypeShareRejected, &catalog.ShareRejectedEvent{})
	s.Register(catalog.EventTypeShareCancelled, &catalog.ShareCancelledEvent{})
	s.Register(catalog.EventTypeShareRevoked, &catalog.ShareRevokedEvent{})
	s.Register(catalog.EventTypeShareJoined, &catalog.ShareJoinedEvent{})
	s.Register(catalog.EventTypeShareLeft, &catalog.ShareLeftEvent{})

	// ordering
	s.Register(ordering.EventTypeOrderCreated, &ordering.OrderCreatedEvent{})
	s.Register(ordering.EventTypeOrderSubmitted, &ordering.OrderSubmittedEvent{})
	s.Register(ordering.EventTypeOrderConfirmed, &ordering.OrderConfirmedEvent{})
	s.Register(ordering.EventTypeOrderShipped, &ordering.OrderShippedEvent{})
	s.Register(ordering.EventTypeOrderDelivered, &ordering.OrderDeliveredEvent{})
	s.Register(ordering.EventTypeOrderAccepted, &ordering.OrderAcceptedEvent{})
	s.Register(ordering.EventTypeOrderDisputed, &ordering.OrderDisputedEvent{})
	s.Register(ordering.EventTypeOrderClosed, &ordering.OrderClosedEvent{})
	s.Register(ordering.EventTypeOrderCancelled, &ordering.OrderCancelledEvent{})
	s.Register(ordering.EventTypeAcceptanceOpened, &ordering.AcceptanceOpenedEvent{})
	s.Register(ordering.EventTypeAcceptanceCompleted, &ordering.AcceptanceCompletedEvent{})

	// billing
	s.Register(billing.EventTypeRateConfigCreated, &billing.RateConfigCreatedEvent{})
	s.Register(billing.EventTypeRateConfigActivated, &billing.RateConfigActivatedEvent{})
	s.Register(billing.EventTypeRateConfigDeactivated, &billing.RateConfigDeactivatedEvent{})
	s.Register(billing.EventTypeRateConfigPromoSet, &billing.RateConfigPromoSetEvent{})
	s.Register(billing.EventTypeTransactionCreated, &billing.TransactionCreatedEvent{})
	s.Register(billing.EventTypeTransactionSettled, &billing.TransactionSettledEvent{})
	s.Register(billing.EventTypeTransactionVoided, &billing.TransactionVoidedEvent{})
	s.Register(billing.EventTypeStatementFinalized, &billing.StatementFinalizedEvent{})
}
