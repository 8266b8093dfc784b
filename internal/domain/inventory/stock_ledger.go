package inventory

import (
	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSet indexes the products a movement touches by ID
type ProductSet map[uuid.UUID]*catalog.Product

// NewProductSet builds a ProductSet from a product slice
func NewProductSet(products []*catalog.Product) ProductSet {
	set := make(ProductSet, len(products))
	for _, p := range products {
		set[p.ID] = p
	}
	return set
}

// StockLedger maintains per-product, per-warehouse quantities on hand as the
// derived effect of source events. Every apply has a symmetric reverse so
// edits run as reverse(old) then apply(new) and deletes as reverse(old).
//
// Operations are all-or-nothing: preconditions are checked across every line
// before the first mutation, so a failed movement leaves stock untouched.
// Callers serialize compound sequences; apply and reverse are not atomic
// with respect to concurrent readers.
type StockLedger struct{}

// NewStockLedger creates a new stock ledger
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Apply applies a movement's stock effect to the given products
func (l *StockLedger) Apply(products ProductSet, mv Movement) error {
	if err := l.validate(products, mv); err != nil {
		return err
	}

	for _, line := range mv.Lines {
		product := products[line.ProductID]
		switch mv.Kind {
		case MovementKindReceipt:
			product.AdjustStock(mv.DestWarehouseID, line.Quantity)
		case MovementKindShipment:
			product.AdjustStock(mv.SourceWarehouseID, line.Quantity.Neg())
		case MovementKindTransfer:
			product.AdjustStock(mv.SourceWarehouseID, line.Quantity.Neg())
			product.AdjustStock(mv.DestWarehouseID, line.Quantity)
		case MovementKindUtilization:
			// Disposal records may be entered after the goods are already
			// gone, so the write-off floors at zero instead of erroring.
			deduct := decimal.Min(line.Quantity, product.StockAt(mv.SourceWarehouseID))
			if deduct.IsPositive() {
				product.AdjustStock(mv.SourceWarehouseID, deduct.Neg())
			}
		}
	}
	return nil
}

// Reverse undoes a movement's stock effect: the same formulas with signs
// flipped. It must be called with the pre-edit version of a document before
// applying the post-edit version, so an edit that changes nothing nets to
// zero. Reversal never checks shortfalls.
func (l *StockLedger) Reverse(products ProductSet, mv Movement) error {
	for _, line := range mv.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			return shared.ErrNotFound
		}
		switch mv.Kind {
		case MovementKindReceipt:
			product.AdjustStock(mv.DestWarehouseID, line.Quantity.Neg())
		case MovementKindShipment:
			product.AdjustStock(mv.SourceWarehouseID, line.Quantity)
		case MovementKindTransfer:
			product.AdjustStock(mv.DestWarehouseID, line.Quantity.Neg())
			product.AdjustStock(mv.SourceWarehouseID, line.Quantity)
		case MovementKindUtilization:
			product.AdjustStock(mv.SourceWarehouseID, line.Quantity)
		}
	}
	return nil
}

// Update replaces a document's old stock effect with its new one. The two
// steps run discretely so validation of the new movement sees stock as if
// the old document never existed: reducing and re-increasing the same line
// must not raise a false shortfall.
func (l *StockLedger) Update(products ProductSet, newMv, oldMv Movement) error {
	if err := l.Reverse(products, oldMv); err != nil {
		return err
	}
	if err := l.Apply(products, newMv); err != nil {
		// Restore the old effect so a rejected edit leaves stock unchanged
		if restoreErr := l.Apply(products, oldMv); restoreErr != nil {
			return restoreErr
		}
		return err
	}
	return nil
}

// validate checks product presence and, when required, availability across
// all lines before any mutation happens.
func (l *StockLedger) validate(products ProductSet, mv Movement) error {
	if len(mv.Lines) == 0 {
		return shared.NewValidationError("items", "movement has no lines")
	}
	for _, line := range mv.Lines {
		if _, ok := products[line.ProductID]; !ok {
			return shared.ErrNotFound
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewValidationError("quantity", "movement quantities must be positive")
		}
	}

	needsCheck := mv.CheckShortfall &&
		(mv.Kind == MovementKindShipment || mv.Kind == MovementKindTransfer)
	if !needsCheck {
		return nil
	}

	// Simulate deductions so repeated lines for one product accumulate
	remaining := make(map[uuid.UUID]decimal.Decimal, len(mv.Lines))
	for _, line := range mv.Lines {
		product := products[line.ProductID]
		available, ok := remaining[line.ProductID]
		if !ok {
			available = product.StockAt(mv.SourceWarehouseID)
		}
		if available.LessThan(line.Quantity) {
			return shared.NewStockError(product.ID, product.Name, mv.SourceWarehouseID, available, line.Quantity)
		}
		remaining[line.ProductID] = available.Sub(line.Quantity)
	}
	return nil
}
