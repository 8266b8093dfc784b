package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/costing"
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// resolveQuantity normalizes an item input into an OrderQuantity, loading
// the packing unit's conversion factor when the quantity was entered packed.
func resolveQuantity(ctx context.Context, units catalog.PackingUnitRepository, input OrderItemInput) (valueobject.OrderQuantity, error) {
	if input.PackingUnitID == nil {
		return valueobject.NewBaseQuantity(input.Quantity)
	}
	if input.PackingQuantity == nil {
		return valueobject.OrderQuantity{}, shared.NewValidationError("packing_quantity", "packing quantity is required when a packing unit is set")
	}
	unit, err := units.FindByID(ctx, *input.PackingUnitID)
	if err != nil {
		return valueobject.OrderQuantity{}, err
	}
	return valueobject.NewPackedQuantity(*input.PackingQuantity, unit.ID, unit.ConversionFactor)
}

// loadProducts fetches every referenced product and indexes it by ID.
// A missing product aborts the operation before any effect is applied.
func loadProducts(ctx context.Context, repo catalog.ProductRepository, ids []uuid.UUID) (inventory.ProductSet, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	products, err := repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	set := inventory.NewProductSet(products)
	for _, id := range unique {
		if _, ok := set[id]; !ok {
			return nil, shared.ErrNotFound
		}
	}
	return set, nil
}

// saveProducts persists every product in the set
func saveProducts(ctx context.Context, repo catalog.ProductRepository, set inventory.ProductSet) error {
	for _, product := range set {
		if err := repo.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// purchaseMovement builds the stock effect of a purchase order
func purchaseMovement(order *trade.PurchaseOrder) inventory.Movement {
	lines := make([]inventory.MovementLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, inventory.MovementLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return inventory.NewReceiptMovement(order.WarehouseID, lines)
}

// sellMovement builds the stock effect of a sell order. The shortfall
// precondition is enforced only when the status signifies a committed
// shipment.
func sellMovement(order *trade.SellOrder) inventory.Movement {
	lines := make([]inventory.MovementLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, inventory.MovementLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return inventory.NewShipmentMovement(order.WarehouseID, lines, order.Status.IsShipped())
}

// transferMovement builds the stock effect of a transfer
func transferMovement(t *trade.Transfer) inventory.Movement {
	lines := make([]inventory.MovementLine, 0, len(t.Items))
	for _, item := range t.Items {
		lines = append(lines, inventory.MovementLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return inventory.NewTransferMovement(t.SourceWarehouseID, t.DestWarehouseID, lines)
}

// utilizationMovement builds the stock effect of a write-off
func utilizationMovement(u *trade.UtilizationOrder) inventory.Movement {
	lines := make([]inventory.MovementLine, 0, len(u.Items))
	for _, item := range u.Items {
		lines = append(lines, inventory.MovementLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return inventory.NewUtilizationMovement(u.WarehouseID, lines)
}

// productIDs collects the product references of an item input slice
func productIDs(items []OrderItemInput) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// orderProductIDs collects the product references of an order line slice
func orderProductIDs(items []*trade.OrderLineItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// applyValuation records each line's computed landed cost on the order so a
// later unfold sees the exact figures that were folded in.
func applyValuation(order *trade.PurchaseOrder, valuation costing.ValuationResult) {
	costs := make(map[uuid.UUID]decimal.Decimal, len(valuation.Lines))
	for _, line := range valuation.Lines {
		costs[line.ItemID] = line.LandedCostPerUnit
	}
	for _, item := range order.Items {
		item.SetLandedCostPerUnit(costs[item.ID])
	}
}

// foldReceipt folds a received order's valuation into each product's moving
// average. The stock ledger has already applied the receipt; each line's
// pre-receipt stock is the post-apply total minus the order quantities not
// yet attributed to that product.
func foldReceipt(engine *costing.Engine, set inventory.ProductSet, valuation costing.ValuationResult) {
	pending := make(map[uuid.UUID]decimal.Decimal, len(valuation.Lines))
	for _, line := range valuation.Lines {
		pending[line.ProductID] = pending[line.ProductID].Add(line.Quantity)
	}
	for _, line := range valuation.Lines {
		product := set[line.ProductID]
		stockBefore := product.TotalStock().Sub(pending[line.ProductID])
		engine.FoldReceiptIntoAverage(product, line.Quantity, line.LandedCostPerUnit, stockBefore)
		pending[line.ProductID] = pending[line.ProductID].Sub(line.Quantity)
	}
}

// unfoldReceipt removes a previously received order's valuation from each
// product's moving average, while its stock effect is still applied. Lines
// are walked in reverse so a product shared across lines unwinds in the
// exact opposite order of the fold.
func unfoldReceipt(engine *costing.Engine, set inventory.ProductSet, order *trade.PurchaseOrder) {
	remaining := make(map[uuid.UUID]decimal.Decimal, len(order.Items))
	for i := len(order.Items) - 1; i >= 0; i-- {
		item := order.Items[i]
		product, ok := set[item.ProductID]
		if !ok {
			continue
		}
		stockAfter, seen := remaining[item.ProductID]
		if !seen {
			stockAfter = product.TotalStock()
		}
		engine.UnfoldReceiptFromAverage(product, item.Quantity, item.LandedCostPerUnit, stockAfter)
		remaining[item.ProductID] = stockAfter.Sub(item.Quantity)
	}
}
