package costing

import (
	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineValuation is the computed valuation of one purchase order line
type LineValuation struct {
	ItemID            uuid.UUID
	ProductID         uuid.UUID
	Quantity          decimal.Decimal
	LineValueBase     decimal.Decimal
	FeeShare          decimal.Decimal
	LandedCostPerUnit decimal.Decimal
}

// ValuationResult is the full valuation of a purchase order in base currency
type ValuationResult struct {
	Lines                []LineValuation
	ProductsSubtotalBase decimal.Decimal
	TotalFeesBase        decimal.Decimal
	// TotalBase is products subtotal plus fees, rounded to the total precision
	TotalBase decimal.Decimal
	// Warnings collects missing-rate conditions; valuation is fail-soft and
	// proceeds with unconverted amounts rather than aborting
	Warnings []*currency.RateMissingWarning
}

// Engine computes per-line landed unit costs for purchase orders and folds
// them into each product's moving weighted-average cost. Intermediate math
// is unrounded; only landed costs (4dp) and totals (2dp) are rounded at the
// result boundary so proportional fee allocation does not compound rounding
// error.
type Engine struct {
	converter *currency.Converter
}

// NewEngine creates a valuation engine over the given currency converter
func NewEngine(converter *currency.Converter) *Engine {
	return &Engine{converter: converter}
}

// ComputeLandedCosts values every line of a purchase order in base currency.
// Each line's landed cost is its converted value plus a share of the order
// fees proportional to the line's share of the products subtotal. Fees carry
// their own currency and locked rate, independent of the order currency.
func (e *Engine) ComputeLandedCosts(order *trade.PurchaseOrder) ValuationResult {
	result := ValuationResult{
		Lines: make([]LineValuation, 0, len(order.Items)),
	}

	subtotal := decimal.Zero
	for _, item := range order.Items {
		lineBase, warn := e.converter.ToBase(item.LineValue(), order.Currency, order.ExchangeRate)
		if warn != nil {
			result.Warnings = append(result.Warnings, warn)
		}
		result.Lines = append(result.Lines, LineValuation{
			ItemID:        item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			LineValueBase: lineBase,
		})
		subtotal = subtotal.Add(lineBase)
	}
	result.ProductsSubtotalBase = subtotal

	feesBase := decimal.Zero
	if order.Fees.IsPositive() {
		converted, warn := e.converter.ToBase(order.Fees, order.FeesCurrency, order.FeesExchangeRate)
		if warn != nil {
			result.Warnings = append(result.Warnings, warn)
		}
		feesBase = converted
	}
	result.TotalFeesBase = feesBase

	for i := range result.Lines {
		line := &result.Lines[i]
		switch {
		case subtotal.IsPositive():
			line.FeeShare = line.LineValueBase.Div(subtotal).Mul(feesBase)
		case len(result.Lines) == 1:
			// Zero subtotal with a single line: that line absorbs all fees
			line.FeeShare = feesBase
		default:
			// Zero subtotal across multiple lines: allocation is skipped
			line.FeeShare = decimal.Zero
		}

		if line.Quantity.IsPositive() {
			line.LandedCostPerUnit = line.LineValueBase.Add(line.FeeShare).
				Div(line.Quantity).
				Round(valueobject.UnitCostPrecision)
		}
	}

	result.TotalBase = subtotal.Add(feesBase).Round(valueobject.TotalPrecision)
	return result
}

// ComputeSellOrderTotal computes a sell order's VAT-inclusive total in base
// currency using the order's locked exchange rate.
func (e *Engine) ComputeSellOrderTotal(order *trade.SellOrder) (decimal.Decimal, []*currency.RateMissingWarning) {
	var warnings []*currency.RateMissingWarning
	subtotal := decimal.Zero
	for _, item := range order.Items {
		lineBase, warn := e.converter.ToBase(item.LineValue(), order.Currency, order.ExchangeRate)
		if warn != nil {
			warnings = append(warnings, warn)
		}
		subtotal = subtotal.Add(lineBase)
	}

	vatFactor := decimal.NewFromInt(1).Add(order.VATPercent.Div(decimal.NewFromInt(100)))
	return subtotal.Mul(vatFactor).Round(valueobject.TotalPrecision), warnings
}

// FoldReceiptIntoAverage folds one received line into the product's moving
// weighted-average landed cost.
//
// stockBefore is the product's total stock across warehouses excluding this
// receipt line. Callers capture it before the stock ledger applies the
// receipt; it is not inferred afterwards.
func (e *Engine) FoldReceiptIntoAverage(product *catalog.Product, qty, landedCostPerUnit, stockBefore decimal.Decimal) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return
	}

	if stockBefore.IsPositive() && product.AverageLandedCost.IsPositive() {
		stockAfter := stockBefore.Add(qty)
		blended := stockBefore.Mul(product.AverageLandedCost).
			Add(qty.Mul(landedCostPerUnit)).
			Div(stockAfter)
		product.SetAverageLandedCost(blended)
		return
	}

	// First receipt, or a cost reset from zero stock: the average is simply
	// the incoming landed cost
	product.SetAverageLandedCost(landedCostPerUnit)
}

// UnfoldReceiptFromAverage removes a previously folded receipt line from the
// product's moving average, so an edited or deleted receipt can be revalued
// without double-counting. stockAfter is the product's total stock across
// warehouses while the receipt is still applied.
func (e *Engine) UnfoldReceiptFromAverage(product *catalog.Product, qty, landedCostPerUnit, stockAfter decimal.Decimal) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return
	}

	remaining := stockAfter.Sub(qty)
	if !remaining.IsPositive() {
		// All remaining value came from this receipt; the prior average is
		// unrecoverable and the next receipt resets it
		product.SetAverageLandedCost(decimal.Zero)
		return
	}

	unblended := stockAfter.Mul(product.AverageLandedCost).
		Sub(qty.Mul(landedCostPerUnit)).
		Div(remaining)
	product.SetAverageLandedCost(unblended)
}
