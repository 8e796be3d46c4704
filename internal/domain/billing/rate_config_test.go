package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newActiveConfig(t *testing.T) *RateConfig {
	t.Helper()
	supplierID := uuid.New()
	config, err := NewRateConfig(&supplierID, "standard commission",
		dec("2.5"), dec("1.00"), dec("500.00"),
		time.Now().Add(-24*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, config.Activate())
	return config
}

func TestNewRateConfig(t *testing.T) {
	t.Run("creates inactive config", func(t *testing.T) {
		config, err := NewRateConfig(nil, "platform default", dec("3"), decimal.Zero, decimal.Zero, time.Now(), nil)
		require.NoError(t, err)
		assert.False(t, config.Active)
		assert.Nil(t, config.SupplierID)
	})

	t.Run("rejects rate above 100", func(t *testing.T) {
		_, err := NewRateConfig(nil, "bad", dec("101"), decimal.Zero, decimal.Zero, time.Now(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewRateConfig(nil, "bad", dec("-1"), decimal.Zero, decimal.Zero, time.Now(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects max fee below min fee", func(t *testing.T) {
		_, err := NewRateConfig(nil, "bad", dec("2"), dec("10"), dec("5"), time.Now(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects inverted effective window", func(t *testing.T) {
		now := time.Now()
		before := now.Add(-time.Hour)
		_, err := NewRateConfig(nil, "bad", dec("2"), decimal.Zero, decimal.Zero, now, &before)
		assert.Error(t, err)
	})
}

func TestRateConfigEffectiveWindow(t *testing.T) {
	now := time.Now()

	t.Run("inactive config never effective", func(t *testing.T) {
		config, err := NewRateConfig(nil, "c", dec("2"), decimal.Zero, decimal.Zero, now.Add(-time.Hour), nil)
		require.NoError(t, err)
		assert.False(t, config.IsEffectiveAt(now))
	})

	t.Run("window bounds are half open", func(t *testing.T) {
		end := now.Add(time.Hour)
		config, err := NewRateConfig(nil, "c", dec("2"), decimal.Zero, decimal.Zero, now.Add(-time.Hour), &end)
		require.NoError(t, err)
		require.NoError(t, config.Activate())

		assert.True(t, config.IsEffectiveAt(now))
		assert.False(t, config.IsEffectiveAt(now.Add(-2*time.Hour)))
		assert.False(t, config.IsEffectiveAt(end))
	})
}

func TestRateConfigTiers(t *testing.T) {
	t.Run("tier lookup by gmv band", func(t *testing.T) {
		config := newActiveConfig(t)
		_, err := config.AddTier(dec("10000"), dec("50000"), dec("2.0"))
		require.NoError(t, err)
		_, err = config.AddTier(dec("50000"), decimal.Zero, dec("1.5"))
		require.NoError(t, err)

		rate, source := config.ResolveRate(dec("5000"), time.Now())
		assert.True(t, rate.Equal(dec("2.5")))
		assert.Equal(t, RateSourceBase, source)

		rate, source = config.ResolveRate(dec("10000"), time.Now())
		assert.True(t, rate.Equal(dec("2.0")))
		assert.Equal(t, RateSourceTier, source)

		rate, source = config.ResolveRate(dec("75000"), time.Now())
		assert.True(t, rate.Equal(dec("1.5")))
		assert.Equal(t, RateSourceTier, source)
	})

	t.Run("band upper bound is exclusive", func(t *testing.T) {
		config := newActiveConfig(t)
		_, err := config.AddTier(dec("10000"), dec("50000"), dec("2.0"))
		require.NoError(t, err)

		rate, source := config.ResolveRate(dec("50000"), time.Now())
		assert.Equal(t, RateSourceBase, source)
		assert.True(t, rate.Equal(dec("2.5")))
	})

	t.Run("overlapping tiers rejected", func(t *testing.T) {
		config := newActiveConfig(t)
		_, err := config.AddTier(dec("10000"), dec("50000"), dec("2.0"))
		require.NoError(t, err)

		_, err = config.AddTier(dec("40000"), dec("60000"), dec("1.8"))
		assert.Error(t, err)

		_, err = config.AddTier(dec("30000"), decimal.Zero, dec("1.8"))
		assert.Error(t, err)
	})

	t.Run("adjacent tiers allowed", func(t *testing.T) {
		config := newActiveConfig(t)
		_, err := config.AddTier(dec("10000"), dec("50000"), dec("2.0"))
		require.NoError(t, err)
		_, err = config.AddTier(dec("50000"), dec("100000"), dec("1.8"))
		assert.NoError(t, err)
	})

	t.Run("remove tier", func(t *testing.T) {
		config := newActiveConfig(t)
		tier, err := config.AddTier(dec("10000"), decimal.Zero, dec("2.0"))
		require.NoError(t, err)

		require.NoError(t, config.RemoveTier(tier.ID))
		assert.Error(t, config.RemoveTier(tier.ID))
	})
}

func TestRateConfigPromo(t *testing.T) {
	t.Run("promo overrides tier and base", func(t *testing.T) {
		config := newActiveConfig(t)
		_, err := config.AddTier(dec("10000"), decimal.Zero, dec("2.0"))
		require.NoError(t, err)

		now := time.Now()
		require.NoError(t, config.SetPromo(dec("0.5"), now.Add(-time.Hour), now.Add(time.Hour)))

		rate, source := config.ResolveRate(dec("20000"), now)
		assert.True(t, rate.Equal(dec("0.5")))
		assert.Equal(t, RateSourcePromo, source)
	})

	t.Run("promo outside window ignored", func(t *testing.T) {
		config := newActiveConfig(t)
		now := time.Now()
		require.NoError(t, config.SetPromo(dec("0.5"), now.Add(time.Hour), now.Add(2*time.Hour)))

		_, source := config.ResolveRate(decimal.Zero, now)
		assert.Equal(t, RateSourceBase, source)
	})

	t.Run("clear promo", func(t *testing.T) {
		config := newActiveConfig(t)
		now := time.Now()
		require.NoError(t, config.SetPromo(dec("0.5"), now.Add(-time.Hour), now.Add(time.Hour)))
		config.ClearPromo()

		_, source := config.ResolveRate(decimal.Zero, now)
		assert.Equal(t, RateSourceBase, source)
	})

	t.Run("rejects inverted promo window", func(t *testing.T) {
		config := newActiveConfig(t)
		now := time.Now()
		assert.Error(t, config.SetPromo(dec("0.5"), now, now))
	})
}

func TestComputeFee(t *testing.T) {
	t.Run("fee is percentage of order amount", func(t *testing.T) {
		config := newActiveConfig(t)

		fee, rate, source := config.ComputeFee(dec("1000"), decimal.Zero, time.Now())
		assert.True(t, fee.Equal(dec("25.00")))
		assert.True(t, rate.Equal(dec("2.5")))
		assert.Equal(t, RateSourceBase, source)
	})

	t.Run("min fee clamp", func(t *testing.T) {
		config := newActiveConfig(t)

		fee, _, _ := config.ComputeFee(dec("10"), decimal.Zero, time.Now())
		assert.True(t, fee.Equal(dec("1.00")), "fee %s should be clamped up to 1.00", fee)
	})

	t.Run("max fee clamp", func(t *testing.T) {
		config := newActiveConfig(t)

		fee, _, _ := config.ComputeFee(dec("100000"), decimal.Zero, time.Now())
		assert.True(t, fee.Equal(dec("500.00")), "fee %s should be clamped down to 500.00", fee)
	})

	t.Run("zero max fee means no cap", func(t *testing.T) {
		config, err := NewRateConfig(nil, "uncapped", dec("2.5"), decimal.Zero, decimal.Zero,
			time.Now().Add(-time.Hour), nil)
		require.NoError(t, err)
		require.NoError(t, config.Activate())

		fee, _, _ := config.ComputeFee(dec("100000"), decimal.Zero, time.Now())
		assert.True(t, fee.Equal(dec("2500.00")))
	})

	t.Run("promo rate clamps too", func(t *testing.T) {
		config := newActiveConfig(t)
		now := time.Now()
		require.NoError(t, config.SetPromo(dec("0"), now.Add(-time.Hour), now.Add(time.Hour)))

		fee, _, source := config.ComputeFee(dec("1000"), decimal.Zero, now)
		assert.Equal(t, RateSourcePromo, source)
		assert.True(t, fee.Equal(dec("1.00")), "zero promo fee still clamped to min")
	})
}

func TestRateConfigActivation(t *testing.T) {
	supplierID := uuid.New()
	config, err := NewRateConfig(&supplierID, "c", dec("2"), decimal.Zero, decimal.Zero, time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, config.Activate())
	assert.Error(t, config.Activate())
	require.NoError(t, config.Deactivate())
	assert.Error(t, config.Deactivate())
}
