package trade

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
)

// MetricsRecorder counts operational outcomes of the lifecycle services:
// movements rejected for insufficient stock, conversions that fell back to
// the unconverted amount, and recorded payments. The telemetry package's
// BusinessMetrics satisfies it.
type MetricsRecorder interface {
	RecordStockShortfall(ctx context.Context, err *shared.StockError)
	RecordMissingRateWarning(ctx context.Context, cur valueobject.Currency)
	RecordPayment(ctx context.Context)
}

// recordOutcome reports an operation's shortfall error and missing-rate
// warnings to the recorder. A nil recorder disables recording.
func recordOutcome(ctx context.Context, metrics MetricsRecorder, warnings []*currency.RateMissingWarning, err error) {
	if metrics == nil {
		return
	}
	var stockErr *shared.StockError
	if errors.As(err, &stockErr) {
		metrics.RecordStockShortfall(ctx, stockErr)
	}
	for _, warning := range warnings {
		metrics.RecordMissingRateWarning(ctx, warning.Currency)
	}
}
