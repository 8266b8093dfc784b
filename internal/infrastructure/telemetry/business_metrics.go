// Package telemetry provides OpenTelemetry metrics for ledger activity.
package telemetry

import (
	"context"
	"fmt"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Meter returns the application's named meter from the global provider.
// When no SDK provider is registered the meter is a no-op.
func Meter(serviceName string) metric.Meter {
	return otel.GetMeterProvider().Meter(serviceName)
}

func newCounter(meter metric.Meter, name, description, unit string) (metric.Int64Counter, error) {
	c, err := meter.Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return c, nil
}

// BusinessMetrics tracks ledger activity: processed orders, stock
// shortfalls and missing-rate conversions. It doubles as an event handler
// so order lifecycle events are counted as they are published.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersProcessed     metric.Int64Counter
	stockShortfalls     metric.Int64Counter
	missingRateWarnings metric.Int64Counter
	paymentsRecorded    metric.Int64Counter
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	var err error
	bm.ordersProcessed, err = newCounter(
		meter,
		"stockledger_orders_processed_total",
		"Total number of order lifecycle transitions processed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockShortfalls, err = newCounter(
		meter,
		"stockledger_stock_shortfalls_total",
		"Total number of movements rejected for insufficient stock",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	bm.missingRateWarnings, err = newCounter(
		meter,
		"stockledger_missing_rate_warnings_total",
		"Total number of conversions that fell back to the unconverted amount",
		"{conversions}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentsRecorded, err = newCounter(
		meter,
		"stockledger_payments_recorded_total",
		"Total number of payments recorded",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordStockShortfall counts a movement rejected by the shortfall check
func (bm *BusinessMetrics) RecordStockShortfall(ctx context.Context, err *shared.StockError) {
	bm.stockShortfalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product", err.ProductName),
	))
}

// RecordMissingRateWarning counts a conversion that had no usable rate
func (bm *BusinessMetrics) RecordMissingRateWarning(ctx context.Context, currency valueobject.Currency) {
	bm.missingRateWarnings.Add(ctx, 1, metric.WithAttributes(
		attribute.String("currency", string(currency)),
	))
}

// RecordPayment counts a recorded payment
func (bm *BusinessMetrics) RecordPayment(ctx context.Context) {
	bm.paymentsRecorded.Add(ctx, 1)
}

// Handle counts order lifecycle events published on the event bus
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	bm.ordersProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.EventType()),
		attribute.String("aggregate_type", event.AggregateType()),
	))
	return nil
}

// EventTypes returns the lifecycle events the metrics handler counts
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		trade.EventTypePurchaseOrderReceived,
		trade.EventTypePurchaseOrderReceiptReverted,
		trade.EventTypeSellOrderShipped,
	}
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
