package event

import (
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/ordering"
)

// Consumer names, one per service that subscribes handlers to its bus.
// They match the ServiceName each binary boots with, which is also the
// name its outbox processor polls under.
const (
	ConsumerPartner = "partner"
	ConsumerOrders  = "orders"
	ConsumerNotify  = "notify"
)

// consumerRoutes maps each consumer to the event types its handlers
// subscribe to. Publishers fan an event out as one outbox entry per
// consumer listed here, so the table must stay in sync with the
// Subscribe calls in bootstrap.
var consumerRoutes = map[string][]string{
	ConsumerPartner: {
		hierarchy.EventTypeNodeUpdated,
		hierarchy.EventTypeNodeMoved,
		hierarchy.EventTypeNodeActivated,
		hierarchy.EventTypeNodeDeactivated,
	},
	ConsumerOrders: {
		ordering.EventTypeOrderDelivered,
		ordering.EventTypeAcceptanceCompleted,
		ordering.EventTypeOrderAccepted,
		ordering.EventTypeOrderClosed,
	},
	ConsumerNotify: {
		ordering.EventTypeOrderSubmitted,
		ordering.EventTypeOrderShipped,
		ordering.EventTypeOrderDisputed,
		ordering.EventTypeOrderCancelled,
		catalog.EventTypeShareRequested,
		catalog.EventTypeShareApproved,
		catalog.EventTypeShareRejected,
		catalog.EventTypeShareRevoked,
		billing.EventTypeStatementFinalized,
	},
}

var consumersByEvent = func() map[string][]string {
	index := make(map[string][]string)
	for consumer, eventTypes := range consumerRoutes {
		for _, eventType := range eventTypes {
			index[eventType] = append(index[eventType], consumer)
		}
	}
	return index
}()

// ConsumersFor returns the consumers subscribed to an event type. An
// event nobody consumes returns nil and produces no outbox entries.
func ConsumersFor(eventType string) []string {
	return consumersByEvent[eventType]
}
