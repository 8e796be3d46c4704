package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateSource identifies how a commission rate was resolved
type RateSource string

const (
	RateSourceBase    RateSource = "base"
	RateSourceTier    RateSource = "tier"
	RateSourcePromo   RateSource = "promo"
	RateSourceMissing RateSource = "missing"
)

var hundred = decimal.NewFromInt(100)

// RateTier defines a commission rate for a band of rolling 30-day settled
// GMV. MaxGMV of zero means the band is unbounded above.
type RateTier struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ConfigID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinGMV   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaxGMV   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate     decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	CreatedAt time.Time
}

// TableName returns the database table name
func (RateTier) TableName() string {
	return "billing_rate_tiers"
}

// Covers returns true if the tier's band contains the given GMV
func (t RateTier) Covers(gmv decimal.Decimal) bool {
	if gmv.LessThan(t.MinGMV) {
		return false
	}
	if t.MaxGMV.IsZero() {
		return true
	}
	return gmv.LessThan(t.MaxGMV)
}

// RateConfig is the commission configuration applied to a supplier's
// settled orders. A config with a nil SupplierID is the platform default,
// used when no supplier-specific config is effective.
//
// Rate resolution per transaction: the tier covering the supplier's
// rolling 30-day settled GMV wins over the base rate; an effective
// promotional rate overrides both. The resulting fee is clamped to
// [MinFee, MaxFee] (MaxFee zero means no cap).
type RateConfig struct {
	shared.BaseAggregateRoot
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"not null;size:200"`
	Active     bool       `gorm:"not null;default:false;index"`

	BaseRate decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	MinFee   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaxFee   decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	EffectiveFrom time.Time  `gorm:"not null;index"`
	EffectiveTo   *time.Time `gorm:"index"`

	PromoRate *decimal.Decimal `gorm:"type:decimal(8,4)"`
	PromoFrom *time.Time
	PromoTo   *time.Time

	Tiers []RateTier `gorm:"foreignKey:ConfigID"`
}

// TableName returns the database table name
func (RateConfig) TableName() string {
	return "billing_rate_configs"
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_RATE", "Rate must be between 0 and 100 percent")
	}
	return nil
}

// NewRateConfig creates a new inactive rate configuration.
// Pass a nil supplierID for the platform default config.
func NewRateConfig(supplierID *uuid.UUID, name string, baseRate, minFee, maxFee decimal.Decimal, effectiveFrom time.Time, effectiveTo *time.Time) (*RateConfig, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Config name cannot be empty")
	}
	if err := validateRate(baseRate); err != nil {
		return nil, err
	}
	if minFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MIN_FEE", "Minimum fee cannot be negative")
	}
	if maxFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MAX_FEE", "Maximum fee cannot be negative")
	}
	if !maxFee.IsZero() && maxFee.LessThan(minFee) {
		return nil, shared.NewDomainError("INVALID_MAX_FEE", "Maximum fee cannot be below the minimum fee")
	}
	if effectiveTo != nil && !effectiveTo.After(effectiveFrom) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Effective end must be after the start")
	}

	config := &RateConfig{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		Name:              name,
		BaseRate:          baseRate,
		MinFee:            minFee,
		MaxFee:            maxFee,
		EffectiveFrom:     effectiveFrom,
		EffectiveTo:       effectiveTo,
		Tiers:             make([]RateTier, 0),
	}

	config.AddDomainEvent(NewRateConfigCreatedEvent(config))

	return config, nil
}

// AddTier adds a GMV band with its own rate. Bands must not overlap
// existing tiers; maxGMV of zero means unbounded.
func (c *RateConfig) AddTier(minGMV, maxGMV, rate decimal.Decimal) (*RateTier, error) {
	if minGMV.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TIER", "Tier minimum cannot be negative")
	}
	if !maxGMV.IsZero() && maxGMV.LessThanOrEqual(minGMV) {
		return nil, shared.NewDomainError("INVALID_TIER", "Tier maximum must exceed its minimum")
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}

	for _, existing := range c.Tiers {
		if tiersOverlap(existing, minGMV, maxGMV) {
			return nil, shared.NewDomainError("TIER_OVERLAP", "Tier band overlaps an existing tier")
		}
	}

	tier := RateTier{
		ID:        uuid.New(),
		ConfigID:  c.ID,
		MinGMV:    minGMV,
		MaxGMV:    maxGMV,
		Rate:      rate,
		CreatedAt: time.Now(),
	}
	c.Tiers = append(c.Tiers, tier)
	sort.Slice(c.Tiers, func(i, j int) bool {
		return c.Tiers[i].MinGMV.LessThan(c.Tiers[j].MinGMV)
	})
	c.UpdatedAt = time.Now()

	return &tier, nil
}

func tiersOverlap(t RateTier, minGMV, maxGMV decimal.Decimal) bool {
	// Both unbounded above, or one band starts inside the other.
	tUnbounded := t.MaxGMV.IsZero()
	newUnbounded := maxGMV.IsZero()

	if tUnbounded && newUnbounded {
		return true
	}
	if tUnbounded {
		return maxGMV.GreaterThan(t.MinGMV)
	}
	if newUnbounded {
		return t.MaxGMV.GreaterThan(minGMV)
	}
	return minGMV.LessThan(t.MaxGMV) && t.MinGMV.LessThan(maxGMV)
}

// RemoveTier removes a tier by ID
func (c *RateConfig) RemoveTier(tierID uuid.UUID) error {
	for i := range c.Tiers {
		if c.Tiers[i].ID == tierID {
			c.Tiers = append(c.Tiers[:i], c.Tiers[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("TIER_NOT_FOUND", "Tier not found on this config")
}

// SetPromo sets a promotional rate for a time window. The promo rate
// overrides both the base rate and any tier rate while the window is open.
func (c *RateConfig) SetPromo(rate decimal.Decimal, from, to time.Time) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	if !to.After(from) {
		return shared.NewDomainError("INVALID_WINDOW", "Promo end must be after the start")
	}

	c.PromoRate = &rate
	c.PromoFrom = &from
	c.PromoTo = &to
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewRateConfigPromoSetEvent(c))

	return nil
}

// ClearPromo removes the promotional rate
func (c *RateConfig) ClearPromo() {
	c.PromoRate = nil
	c.PromoFrom = nil
	c.PromoTo = nil
	c.UpdatedAt = time.Now()
}

// Activate makes the config eligible for rate resolution
func (c *RateConfig) Activate() error {
	if c.Active {
		return shared.NewDomainError("INVALID_STATE", "Config is already active")
	}

	c.Active = true
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewRateConfigActivatedEvent(c))

	return nil
}

// Deactivate withdraws the config from rate resolution
func (c *RateConfig) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Config is already inactive")
	}

	c.Active = false
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewRateConfigDeactivatedEvent(c))

	return nil
}

// IsEffectiveAt returns true if the config is active and its effective
// window covers the given time
func (c *RateConfig) IsEffectiveAt(at time.Time) bool {
	if !c.Active {
		return false
	}
	if at.Before(c.EffectiveFrom) {
		return false
	}
	if c.EffectiveTo != nil && !at.Before(*c.EffectiveTo) {
		return false
	}
	return true
}

// isPromoOpenAt returns true if the promotional window covers the time
func (c *RateConfig) isPromoOpenAt(at time.Time) bool {
	if c.PromoRate == nil || c.PromoFrom == nil || c.PromoTo == nil {
		return false
	}
	return !at.Before(*c.PromoFrom) && at.Before(*c.PromoTo)
}

// ResolveRate resolves the commission rate for a transaction given the
// supplier's rolling 30-day settled GMV at the time of settlement.
func (c *RateConfig) ResolveRate(gmv30d decimal.Decimal, at time.Time) (decimal.Decimal, RateSource) {
	if c.isPromoOpenAt(at) {
		return *c.PromoRate, RateSourcePromo
	}

	for _, tier := range c.Tiers {
		if tier.Covers(gmv30d) {
			return tier.Rate, RateSourceTier
		}
	}

	return c.BaseRate, RateSourceBase
}

// ComputeFee computes the commission fee for an order amount, clamped to
// the config's fee bounds.
func (c *RateConfig) ComputeFee(orderAmount, gmv30d decimal.Decimal, at time.Time) (fee, rate decimal.Decimal, source RateSource) {
	rate, source = c.ResolveRate(gmv30d, at)
	fee = orderAmount.Mul(rate).Div(hundred).Round(2)

	if fee.LessThan(c.MinFee) {
		fee = c.MinFee
	}
	if !c.MaxFee.IsZero() && fee.GreaterThan(c.MaxFee) {
		fee = c.MaxFee
	}

	return fee, rate, source
}
