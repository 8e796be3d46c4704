package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a meter is required but not provided
var ErrMeterNil = errors.New("meter is required")

// BusinessMetrics tracks ordering and billing activity: orders moving
// through the lifecycle, settlement runs, and commission fees charged.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersSubmitted    metric.Int64Counter
	ordersClosed       metric.Int64Counter
	orderAmount        metric.Float64Histogram
	settlementRuns     metric.Int64Counter
	settlementDuration metric.Float64Histogram
	commissionFees     metric.Float64Counter
	notificationsSent  metric.Int64Counter
}

// NewBusinessMetrics creates a new BusinessMetrics instance
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}

	var err error
	if bm.ordersSubmitted, err = meter.Int64Counter(
		"orderhub_orders_submitted_total",
		metric.WithDescription("Total number of orders submitted"),
		metric.WithUnit("{orders}"),
	); err != nil {
		return nil, err
	}

	if bm.ordersClosed, err = meter.Int64Counter(
		"orderhub_orders_closed_total",
		metric.WithDescription("Total number of orders closed"),
		metric.WithUnit("{orders}"),
	); err != nil {
		return nil, err
	}

	if bm.orderAmount, err = meter.Float64Histogram(
		"orderhub_order_amount",
		metric.WithDescription("Order total amount distribution"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, err
	}

	if bm.settlementRuns, err = meter.Int64Counter(
		"orderhub_settlement_runs_total",
		metric.WithDescription("Total number of per-supplier settlement runs"),
		metric.WithUnit("{runs}"),
	); err != nil {
		return nil, err
	}

	if bm.settlementDuration, err = meter.Float64Histogram(
		"orderhub_settlement_duration_seconds",
		metric.WithDescription("Duration of per-supplier settlement runs"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if bm.commissionFees, err = meter.Float64Counter(
		"orderhub_commission_fees_total",
		metric.WithDescription("Total commission fees charged"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, err
	}

	if bm.notificationsSent, err = meter.Int64Counter(
		"orderhub_notifications_published_total",
		metric.WithDescription("Total notifications published for delivery"),
		metric.WithUnit("{notifications}"),
	); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordOrderSubmitted records a submitted order and its amount
func (m *BusinessMetrics) RecordOrderSubmitted(ctx context.Context, supplierID string, amount decimal.Decimal) {
	attrs := metric.WithAttributes(attribute.String("supplier_id", supplierID))
	m.ordersSubmitted.Add(ctx, 1, attrs)
	m.orderAmount.Record(ctx, amount.InexactFloat64(), attrs)
}

// RecordOrderClosed records a closed order
func (m *BusinessMetrics) RecordOrderClosed(ctx context.Context, supplierID string) {
	m.ordersClosed.Add(ctx, 1, metric.WithAttributes(attribute.String("supplier_id", supplierID)))
}

// RecordSettlementRun records a completed settlement run for a supplier
func (m *BusinessMetrics) RecordSettlementRun(ctx context.Context, supplierID string, duration time.Duration, succeeded bool) {
	attrs := metric.WithAttributes(
		attribute.String("supplier_id", supplierID),
		attribute.Bool("success", succeeded),
	)
	m.settlementRuns.Add(ctx, 1, attrs)
	m.settlementDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCommissionFee records a commission fee charged on a transaction
func (m *BusinessMetrics) RecordCommissionFee(ctx context.Context, supplierID string, fee decimal.Decimal) {
	m.commissionFees.Add(ctx, fee.InexactFloat64(),
		metric.WithAttributes(attribute.String("supplier_id", supplierID)))
}

// RecordNotificationPublished records a notification handed to delivery
func (m *BusinessMetrics) RecordNotificationPublished(ctx context.Context, channel string) {
	m.notificationsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
}
