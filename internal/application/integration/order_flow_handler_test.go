package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFlowFixture struct {
	orders       *fakeOrderTransitioner
	acceptances  *fakeAcceptanceOpener
	transactions *fakeTransactionCreator
}

func newOrderFlowFixture() *orderFlowFixture {
	return &orderFlowFixture{
		orders:       &fakeOrderTransitioner{},
		acceptances:  &fakeAcceptanceOpener{},
		transactions: &fakeTransactionCreator{},
	}
}

func (f *orderFlowFixture) handler() *OrderFlowHandler {
	return NewOrderFlowHandler(
		f.orders,
		f.acceptances,
		f.transactions,
		cache.NewInMemoryIdempotencyStore(),
		shared.DefaultIdempotencyConfig(),
		zap.NewNop(),
	)
}

func deliveredEvent(orderID uuid.UUID) *ordering.OrderDeliveredEvent {
	return &ordering.OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ordering.EventTypeOrderDelivered, ordering.AggregateTypeOrder, orderID),
		OrderID:         orderID,
		OrderNumber:     "SO-20260801-000042",
		NodeID:          uuid.New(),
		SupplierID:      uuid.New(),
	}
}

func completedEvent(orderID uuid.UUID, rejections bool) *ordering.AcceptanceCompletedEvent {
	accepted := decimal.NewFromInt(3)
	rejected := decimal.Zero
	if rejections {
		accepted = decimal.NewFromInt(2)
		rejected = decimal.NewFromInt(1)
	}
	return &ordering.AcceptanceCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ordering.EventTypeAcceptanceCompleted, ordering.AggregateTypeAcceptance, uuid.New()),
		AcceptanceID:    uuid.New(),
		OrderID:         orderID,
		OrderNumber:     "SO-20260801-000042",
		HasRejections:   rejections,
		Lines: []ordering.AcceptanceLineInfo{
			{
				OrderItemID: uuid.New(),
				SKU:         "WIDGET-1",
				ExpectedQty: decimal.NewFromInt(3),
				AcceptedQty: accepted,
				RejectedQty: rejected,
			},
		},
	}
}

func TestDeliveredOrderOpensAcceptance(t *testing.T) {
	f := newOrderFlowFixture()

	orderID := uuid.New()
	err := f.handler().Handle(context.Background(), deliveredEvent(orderID))

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{orderID}, f.acceptances.opened)
}

func TestCleanAcceptanceAcceptsOrder(t *testing.T) {
	f := newOrderFlowFixture()

	orderID := uuid.New()
	err := f.handler().Handle(context.Background(), completedEvent(orderID, false))

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{orderID}, f.orders.accepted)
	assert.Empty(t, f.orders.disputed)
}

func TestRejectedAcceptanceDisputesOrder(t *testing.T) {
	f := newOrderFlowFixture()

	orderID := uuid.New()
	err := f.handler().Handle(context.Background(), completedEvent(orderID, true))

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{orderID}, f.orders.disputed)
	assert.Empty(t, f.orders.accepted)
	require.Len(t, f.orders.reasons, 1)
	assert.Contains(t, f.orders.reasons[0], "SO-20260801-000042")
}

func TestAcceptedOrderCloses(t *testing.T) {
	f := newOrderFlowFixture()

	orderID := uuid.New()
	event := &ordering.OrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ordering.EventTypeOrderAccepted, ordering.AggregateTypeOrder, orderID),
		OrderID:         orderID,
	}

	err := f.handler().Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{orderID}, f.orders.closed)
}

func TestClosedOrderOpensTransaction(t *testing.T) {
	f := newOrderFlowFixture()

	orderID := uuid.New()
	supplierID := uuid.New()
	event := &ordering.OrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ordering.EventTypeOrderClosed, ordering.AggregateTypeOrder, orderID),
		OrderID:         orderID,
		OrderNumber:     "SO-20260801-000042",
		NodeID:          uuid.New(),
		SupplierID:      supplierID,
		TotalAmount:     decimal.NewFromInt(660),
	}

	err := f.handler().Handle(context.Background(), event)

	require.NoError(t, err)
	require.Len(t, f.transactions.inputs, 1)
	assert.Equal(t, orderID, f.transactions.inputs[0].OrderID)
	assert.Equal(t, supplierID, f.transactions.inputs[0].SupplierID)
	assert.True(t, f.transactions.inputs[0].OrderAmount.Equal(decimal.NewFromInt(660)))
}

func TestRedeliveredEventIsSkipped(t *testing.T) {
	f := newOrderFlowFixture()
	handler := f.handler()

	orderID := uuid.New()
	event := deliveredEvent(orderID)

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Len(t, f.acceptances.opened, 1)
}

func TestAlreadyTransitionedOrderIsTolerated(t *testing.T) {
	f := newOrderFlowFixture()
	f.orders.err = shared.NewDomainError("INVALID_STATE", "Order is already closed")

	orderID := uuid.New()
	event := &ordering.OrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ordering.EventTypeOrderAccepted, ordering.AggregateTypeOrder, orderID),
		OrderID:         orderID,
	}

	err := f.handler().Handle(context.Background(), event)

	assert.NoError(t, err)
}
