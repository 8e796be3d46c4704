package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("ORD-20260801-0001", uuid.New(), uuid.New())
	require.NoError(t, err)
	return order
}

func newSubmittedOrder(t *testing.T) *Order {
	t.Helper()
	order := newDraftOrder(t)
	_, err := order.AddItem(uuid.New(), "TOMATO-1KG", "Roma Tomatoes", "box",
		decimal.NewFromInt(10), valueobject.NewMoneyUSD(decimal.NewFromFloat(12.50)))
	require.NoError(t, err)
	require.NoError(t, order.Submit())
	return order
}

func deliveredOrder(t *testing.T) *Order {
	t.Helper()
	order := newSubmittedOrder(t)
	require.NoError(t, order.Confirm())
	require.NoError(t, order.Ship("TRACK-123"))
	require.NoError(t, order.MarkDelivered())
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		order := newDraftOrder(t)
		assert.Equal(t, OrderStatusDraft, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects empty node", func(t *testing.T) {
		_, err := NewOrder("ORD-1", uuid.Nil, uuid.New())
		assert.Error(t, err)
	})
}

func TestOrderItems(t *testing.T) {
	t.Run("add item recalculates total", func(t *testing.T) {
		order := newDraftOrder(t)

		_, err := order.AddItem(uuid.New(), "TOMATO-1KG", "Roma Tomatoes", "box",
			decimal.NewFromInt(10), valueobject.NewMoneyUSD(decimal.NewFromFloat(12.50)))
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), "ONION-5KG", "Yellow Onions", "bag",
			decimal.NewFromInt(4), valueobject.NewMoneyUSD(decimal.NewFromInt(8)))
		require.NoError(t, err)

		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(157)))
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		order := newDraftOrder(t)
		productID := uuid.New()

		_, err := order.AddItem(productID, "SKU-1", "Item", "ea",
			decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromInt(5)))
		require.NoError(t, err)
		_, err = order.AddItem(productID, "SKU-1", "Item", "ea",
			decimal.NewFromInt(2), valueobject.NewMoneyUSD(decimal.NewFromInt(5)))
		assert.Error(t, err)
	})

	t.Run("update quantity", func(t *testing.T) {
		order := newDraftOrder(t)
		item, err := order.AddItem(uuid.New(), "SKU-1", "Item", "ea",
			decimal.NewFromInt(2), valueobject.NewMoneyUSD(decimal.NewFromInt(5)))
		require.NoError(t, err)

		require.NoError(t, order.UpdateItemQuantity(item.ID, decimal.NewFromInt(6)))
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)))

		assert.Error(t, order.UpdateItemQuantity(item.ID, decimal.Zero))
		assert.Error(t, order.UpdateItemQuantity(uuid.New(), decimal.NewFromInt(1)))
	})

	t.Run("remove item", func(t *testing.T) {
		order := newDraftOrder(t)
		item, err := order.AddItem(uuid.New(), "SKU-1", "Item", "ea",
			decimal.NewFromInt(2), valueobject.NewMoneyUSD(decimal.NewFromInt(5)))
		require.NoError(t, err)

		require.NoError(t, order.RemoveItem(item.ID))
		assert.Empty(t, order.Items)
		assert.True(t, order.TotalAmount.IsZero())
	})

	t.Run("no item changes after submit", func(t *testing.T) {
		order := newSubmittedOrder(t)
		_, err := order.AddItem(uuid.New(), "SKU-2", "Item", "ea",
			decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromInt(5)))
		assert.Error(t, err)
	})
}

func TestOrderLifecycle(t *testing.T) {
	t.Run("happy path to closed", func(t *testing.T) {
		order := deliveredOrder(t)
		require.NoError(t, order.Accept())
		require.NoError(t, order.Close())

		assert.Equal(t, OrderStatusClosed, order.Status)
		assert.True(t, order.Status.IsTerminal())
		assert.NotNil(t, order.ClosedAt)
	})

	t.Run("dispute path to closed", func(t *testing.T) {
		order := deliveredOrder(t)
		require.NoError(t, order.Dispute("half the goods were spoiled"))
		assert.Equal(t, OrderStatusDisputed, order.Status)
		require.NoError(t, order.Close())
		assert.Equal(t, OrderStatusClosed, order.Status)
	})

	t.Run("empty order cannot be submitted", func(t *testing.T) {
		order := newDraftOrder(t)
		assert.Error(t, order.Submit())
	})

	t.Run("cancel allowed until shipment", func(t *testing.T) {
		order := newSubmittedOrder(t)
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Cancel("site closed"))
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("cannot cancel after shipment", func(t *testing.T) {
		order := newSubmittedOrder(t)
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Ship(""))
		assert.Error(t, order.Cancel("too late"))
	})

	t.Run("dispute requires reason", func(t *testing.T) {
		order := deliveredOrder(t)
		assert.Error(t, order.Dispute(""))
	})

	t.Run("no skipping states", func(t *testing.T) {
		order := newSubmittedOrder(t)
		assert.Error(t, order.Ship(""))
		assert.Error(t, order.MarkDelivered())
		assert.Error(t, order.Accept())
		assert.Error(t, order.Close())
	})
}

func TestOrderDeliveryDetails(t *testing.T) {
	t.Run("sets future date", func(t *testing.T) {
		order := newDraftOrder(t)
		future := time.Now().Add(72 * time.Hour)
		require.NoError(t, order.SetDeliveryDetails(&future, "42 Dock St"))
		assert.Equal(t, "42 Dock St", order.DeliveryAddress)
	})

	t.Run("rejects past date", func(t *testing.T) {
		order := newDraftOrder(t)
		past := time.Now().Add(-48 * time.Hour)
		assert.Error(t, order.SetDeliveryDetails(&past, ""))
	})

	t.Run("locked after submit", func(t *testing.T) {
		order := newSubmittedOrder(t)
		future := time.Now().Add(72 * time.Hour)
		assert.Error(t, order.SetDeliveryDetails(&future, ""))
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusDraft, OrderStatusSubmitted, true},
		{OrderStatusDraft, OrderStatusCancelled, true},
		{OrderStatusDraft, OrderStatusConfirmed, false},
		{OrderStatusSubmitted, OrderStatusConfirmed, true},
		{OrderStatusSubmitted, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusAccepted, true},
		{OrderStatusDelivered, OrderStatusDisputed, true},
		{OrderStatusAccepted, OrderStatusClosed, true},
		{OrderStatusDisputed, OrderStatusClosed, true},
		{OrderStatusClosed, OrderStatusDraft, false},
		{OrderStatusCancelled, OrderStatusSubmitted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
