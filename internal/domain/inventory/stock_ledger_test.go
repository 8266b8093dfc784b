package inventory

import (
	"errors"
	"testing"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, name string, warehouseID uuid.UUID, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, name)
	require.NoError(t, err)
	if stock != 0 {
		product.AdjustStock(warehouseID, decimal.NewFromInt(stock))
	}
	return product
}

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestApplyReceiptIncreasesDestinationStock(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 5)
	set := NewProductSet([]*catalog.Product{product})

	mv := NewReceiptMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(10)}})
	require.NoError(t, ledger.Apply(set, mv))

	assert.True(t, product.StockAt(warehouse).Equal(qty(15)))
}

func TestApplyShipmentUncheckedAllowsNegativeStock(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 3)
	set := NewProductSet([]*catalog.Product{product})

	mv := NewShipmentMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(10)}}, false)
	require.NoError(t, ledger.Apply(set, mv))

	assert.True(t, product.StockAt(warehouse).Equal(qty(-7)))
}

func TestApplyShipmentCheckedRejectsShortfall(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 3)
	set := NewProductSet([]*catalog.Product{product})

	mv := NewShipmentMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(10)}}, true)
	err := ledger.Apply(set, mv)

	var stockErr *shared.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.True(t, stockErr.Available.Equal(qty(3)))
	assert.True(t, stockErr.Requested.Equal(qty(10)))
	// Nothing was deducted.
	assert.True(t, product.StockAt(warehouse).Equal(qty(3)))
}

func TestApplyIsAllOrNothingAcrossLines(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	plenty := newTestProduct(t, "flour", warehouse, 100)
	scarce := newTestProduct(t, "oil", warehouse, 1)
	set := NewProductSet([]*catalog.Product{plenty, scarce})

	mv := NewShipmentMovement(warehouse, []MovementLine{
		{ProductID: plenty.ID, Quantity: qty(10)},
		{ProductID: scarce.ID, Quantity: qty(5)},
	}, true)
	err := ledger.Apply(set, mv)

	var stockErr *shared.StockError
	require.True(t, errors.As(err, &stockErr))
	// The first line must not have been applied before the second failed.
	assert.True(t, plenty.StockAt(warehouse).Equal(qty(100)))
	assert.True(t, scarce.StockAt(warehouse).Equal(qty(1)))
}

func TestApplyShortfallAccumulatesRepeatedLines(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 10)
	set := NewProductSet([]*catalog.Product{product})

	// Two lines of 6 exceed the 10 on hand even though each fits alone.
	mv := NewShipmentMovement(warehouse, []MovementLine{
		{ProductID: product.ID, Quantity: qty(6)},
		{ProductID: product.ID, Quantity: qty(6)},
	}, true)
	err := ledger.Apply(set, mv)

	var stockErr *shared.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Available.Equal(qty(4)))
}

func TestApplyTransferMovesStockBetweenWarehouses(t *testing.T) {
	ledger := NewStockLedger()
	source := uuid.New()
	dest := uuid.New()
	product := newTestProduct(t, "oil", source, 8)
	set := NewProductSet([]*catalog.Product{product})

	mv := NewTransferMovement(source, dest, []MovementLine{{ProductID: product.ID, Quantity: qty(5)}})
	require.NoError(t, ledger.Apply(set, mv))

	assert.True(t, product.StockAt(source).Equal(qty(3)))
	assert.True(t, product.StockAt(dest).Equal(qty(5)))
	assert.True(t, product.TotalStock().Equal(qty(8)))
}

func TestApplyUtilizationClampsAtZero(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 3)
	set := NewProductSet([]*catalog.Product{product})

	mv := NewUtilizationMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(10)}})
	require.NoError(t, ledger.Apply(set, mv))

	assert.True(t, product.StockAt(warehouse).IsZero())
}

func TestReverseUtilizationRestoresFullQuantity(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 3)
	set := NewProductSet([]*catalog.Product{product})

	mv := NewUtilizationMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(10)}})
	require.NoError(t, ledger.Apply(set, mv))
	require.NoError(t, ledger.Reverse(set, mv))

	// The recorded quantity comes back even though the apply clamped,
	// reflecting that the document says 10 were written off.
	assert.True(t, product.StockAt(warehouse).Equal(qty(10)))
}

func TestReverseUndoesEachKind(t *testing.T) {
	ledger := NewStockLedger()
	source := uuid.New()
	dest := uuid.New()
	product := newTestProduct(t, "oil", source, 20)
	set := NewProductSet([]*catalog.Product{product})

	movements := []Movement{
		NewReceiptMovement(dest, []MovementLine{{ProductID: product.ID, Quantity: qty(7)}}),
		NewShipmentMovement(source, []MovementLine{{ProductID: product.ID, Quantity: qty(4)}}, true),
		NewTransferMovement(source, dest, []MovementLine{{ProductID: product.ID, Quantity: qty(3)}}),
	}
	for _, mv := range movements {
		require.NoError(t, ledger.Apply(set, mv))
	}
	for _, mv := range movements {
		require.NoError(t, ledger.Reverse(set, mv))
	}

	assert.True(t, product.StockAt(source).Equal(qty(20)))
	assert.True(t, product.StockAt(dest).IsZero())
}

func TestUpdateIdenticalMovementNetsToZero(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 5)
	set := NewProductSet([]*catalog.Product{product})

	// The full stock is already shipped; re-saving the unchanged document
	// must not raise a shortfall.
	mv := NewShipmentMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(5)}}, true)
	require.NoError(t, ledger.Apply(set, mv))
	require.NoError(t, ledger.Update(set, mv, mv))

	assert.True(t, product.StockAt(warehouse).IsZero())
}

func TestUpdateRestoresOldEffectWhenNewMovementFails(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 5)
	set := NewProductSet([]*catalog.Product{product})

	oldMv := NewShipmentMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(2)}}, true)
	require.NoError(t, ledger.Apply(set, oldMv))

	newMv := NewShipmentMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(50)}}, true)
	err := ledger.Update(set, newMv, oldMv)

	var stockErr *shared.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, product.StockAt(warehouse).Equal(qty(3)))
}

func TestApplyRejectsUnknownProduct(t *testing.T) {
	ledger := NewStockLedger()
	set := NewProductSet(nil)

	mv := NewReceiptMovement(uuid.New(), []MovementLine{{ProductID: uuid.New(), Quantity: qty(1)}})
	assert.ErrorIs(t, ledger.Apply(set, mv), shared.ErrNotFound)
}

func TestApplyRejectsEmptyAndNonPositiveLines(t *testing.T) {
	ledger := NewStockLedger()
	warehouse := uuid.New()
	product := newTestProduct(t, "oil", warehouse, 5)
	set := NewProductSet([]*catalog.Product{product})

	err := ledger.Apply(set, NewReceiptMovement(warehouse, nil))
	var validationErr *shared.ValidationError
	assert.True(t, errors.As(err, &validationErr))

	err = ledger.Apply(set, NewReceiptMovement(warehouse, []MovementLine{{ProductID: product.ID, Quantity: qty(0)}}))
	assert.True(t, errors.As(err, &validationErr))
}
