package telemetry

import (
	"context"
	"testing"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewBusinessMetrics(t *testing.T) {
	bm, err := NewBusinessMetrics(noop.NewMeterProvider().Meter("test"), nil)
	require.NoError(t, err)
	require.NotNil(t, bm)

	ctx := context.Background()
	bm.RecordStockShortfall(ctx, shared.NewStockError(uuid.New(), "Widget", uuid.New(), decimal.NewFromInt(2), decimal.NewFromInt(5)))
	bm.RecordMissingRateWarning(ctx, valueobject.USD)
	bm.RecordPayment(ctx)
}

func TestBusinessMetricsHandlesLifecycleEvents(t *testing.T) {
	bm, err := NewBusinessMetrics(noop.NewMeterProvider().Meter("test"), nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		trade.EventTypePurchaseOrderReceived,
		trade.EventTypePurchaseOrderReceiptReverted,
		trade.EventTypeSellOrderShipped,
	}, bm.EventTypes())

	event := shared.NewBaseDomainEvent(trade.EventTypeSellOrderShipped, "SellOrder", uuid.New())
	assert.NoError(t, bm.Handle(context.Background(), &event))
}
