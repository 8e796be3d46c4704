package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveSupplier(t *testing.T) *Supplier {
	t.Helper()
	s, err := NewSupplier("Fresh Farms", "FRESH", "ops@freshfarms.test")
	require.NoError(t, err)
	require.NoError(t, s.Activate())
	return s
}

func TestNewSupplier(t *testing.T) {
	t.Run("creates pending supplier", func(t *testing.T) {
		s, err := NewSupplier("Fresh Farms", "FRESH", "ops@freshfarms.test")
		require.NoError(t, err)

		assert.Equal(t, SupplierStatusPending, s.Status)
		assert.Equal(t, 3, s.LeadTimeDays)
		assert.False(t, s.CanReceiveOrders())
		assert.Len(t, s.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSupplier("", "FRESH", "")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewSupplier("Fresh Farms", "FRESH", "not-an-email")
		assert.Error(t, err)
	})

	t.Run("allows empty email", func(t *testing.T) {
		_, err := NewSupplier("Fresh Farms", "FRESH", "")
		assert.NoError(t, err)
	})
}

func TestSupplierLifecycle(t *testing.T) {
	t.Run("pending to active", func(t *testing.T) {
		s := newActiveSupplier(t)
		assert.Equal(t, SupplierStatusActive, s.Status)
		assert.NotNil(t, s.ActivatedAt)
		assert.True(t, s.CanReceiveOrders())
	})

	t.Run("block requires reason", func(t *testing.T) {
		s := newActiveSupplier(t)
		assert.Error(t, s.Block(""))
		require.NoError(t, s.Block("repeated late deliveries"))
		assert.Equal(t, SupplierStatusBlocked, s.Status)
		assert.False(t, s.CanReceiveOrders())
	})

	t.Run("blocked supplier can be reactivated", func(t *testing.T) {
		s := newActiveSupplier(t)
		require.NoError(t, s.Block("quality issues"))
		require.NoError(t, s.Activate())
		assert.Equal(t, SupplierStatusActive, s.Status)
		assert.Empty(t, s.BlockReason)
	})

	t.Run("offboarded is terminal", func(t *testing.T) {
		s := newActiveSupplier(t)
		require.NoError(t, s.Offboard())
		assert.Error(t, s.Activate())
		assert.Error(t, s.Block("anything"))
	})

	t.Run("pending cannot be blocked", func(t *testing.T) {
		s, err := NewSupplier("Fresh Farms", "FRESH", "")
		require.NoError(t, err)
		assert.Error(t, s.Block("reason"))
	})
}

func TestSupplierUpdates(t *testing.T) {
	t.Run("fulfillment terms validation", func(t *testing.T) {
		s := newActiveSupplier(t)
		assert.Error(t, s.UpdateFulfillmentTerms(-1, 1))
		assert.Error(t, s.UpdateFulfillmentTerms(3, 0))
		require.NoError(t, s.UpdateFulfillmentTerms(5, 10))
		assert.Equal(t, 5, s.LeadTimeDays)
		assert.Equal(t, 10, s.MinOrderQty)
	})

	t.Run("contact email validated on update", func(t *testing.T) {
		s := newActiveSupplier(t)
		assert.Error(t, s.UpdateContact("Pat", "bad-email", "", ""))
		require.NoError(t, s.UpdateContact("Pat", "pat@freshfarms.test", "555-0100", "1 Farm Rd"))
		assert.Equal(t, "Pat", s.ContactName)
	})
}
