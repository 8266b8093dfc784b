package trade

import (
	"context"
	"testing"
	"time"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/costing"
	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *costing.Engine {
	return costing.NewEngine(currency.NewConverter(currency.RateTable{
		valueobject.USD: decimal.RequireFromString("1.7"),
	}))
}

type purchaseFixture struct {
	repos   RepositorySet
	service *PurchaseOrderService
	product *catalog.Product
	wareID  uuid.UUID
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	repos := newMemRepositorySet()
	product, err := catalog.NewProduct("Olive Oil", "OIL-001")
	require.NoError(t, err)
	require.NoError(t, repos.Products().Save(context.Background(), product))

	return &purchaseFixture{
		repos:   repos,
		service: NewPurchaseOrderService(NewNoOpTransactionScope(repos), testEngine()),
		product: product,
		wareID:  uuid.New(),
	}
}

func (f *purchaseFixture) createRequest(status trade.PurchaseOrderStatus) CreatePurchaseOrderRequest {
	return CreatePurchaseOrderRequest{
		OrderNumber: "PO-001",
		SupplierID:  uuid.New(),
		WarehouseID: f.wareID,
		OrderDate:   time.Now(),
		Status:      status,
		Items: []OrderItemInput{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(5)},
		},
	}
}

func TestPurchaseOrderCreateAppliesStockAndTotal(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	order, warnings, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusDraft))
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(50)))
	assert.True(t, f.product.StockAt(f.wareID).Equal(decimal.NewFromInt(10)))
	// Draft receipts do not touch the moving average.
	assert.True(t, f.product.AverageLandedCost.IsZero())
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].LandedCostPerUnit.Equal(decimal.NewFromInt(5)))
}

func TestPurchaseOrderCreateReceivedFoldsAverage(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	req := f.createRequest(trade.PurchaseOrderStatusReceived)
	req.Fees = decimal.NewFromInt(10)

	order, _, err := f.service.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, trade.PurchaseOrderStatusReceived, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(60)))
	// (50 + 10) / 10 units
	assert.True(t, f.product.AverageLandedCost.Equal(decimal.NewFromInt(6)), "got %s", f.product.AverageLandedCost)
}

func TestPurchaseOrderCreateRejectsDuplicateOrderNumber(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	_, _, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusDraft))
	require.NoError(t, err)

	_, _, err = f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusDraft))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestPurchaseOrderCreateRejectsUnknownProduct(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	req := f.createRequest(trade.PurchaseOrderStatusDraft)
	req.Items[0].ProductID = uuid.New()

	_, _, err := f.service.Create(ctx, req)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderCreateResolvesPackedQuantity(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	unit, err := catalog.NewPackingUnit("Box of 12", decimal.NewFromInt(12))
	require.NoError(t, err)
	require.NoError(t, f.repos.PackingUnits().Save(ctx, unit))

	count := decimal.NewFromInt(2)
	req := f.createRequest(trade.PurchaseOrderStatusDraft)
	req.Items[0].Quantity = decimal.Zero
	req.Items[0].PackingUnitID = &unit.ID
	req.Items[0].PackingQuantity = &count

	order, _, err := f.service.Create(ctx, req)
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Quantity.Equal(decimal.NewFromInt(24)))
	assert.True(t, f.product.StockAt(f.wareID).Equal(decimal.NewFromInt(24)))
}

func TestPurchaseOrderUpdateRevalues(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	order, _, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusReceived))
	require.NoError(t, err)
	require.True(t, f.product.AverageLandedCost.Equal(decimal.NewFromInt(5)))

	updated, _, err := f.service.Update(ctx, order.ID, UpdatePurchaseOrderRequest{
		SupplierID:  order.SupplierID,
		WarehouseID: f.wareID,
		OrderDate:   order.OrderDate,
		Status:      trade.PurchaseOrderStatusReceived,
		Items: []OrderItemInput{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(20), Price: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, order.ID, updated.ID)
	assert.Equal(t, order.OrderNumber, updated.OrderNumber)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(160)))
	// The old receipt is fully unwound: 20 on hand at cost 8.
	assert.True(t, f.product.StockAt(f.wareID).Equal(decimal.NewFromInt(20)))
	assert.True(t, f.product.AverageLandedCost.Equal(decimal.NewFromInt(8)), "got %s", f.product.AverageLandedCost)
}

func TestPurchaseOrderUpdateUnchangedIsNetZero(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	order, _, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusReceived))
	require.NoError(t, err)

	_, _, err = f.service.Update(ctx, order.ID, UpdatePurchaseOrderRequest{
		SupplierID:  order.SupplierID,
		WarehouseID: f.wareID,
		OrderDate:   order.OrderDate,
		Status:      trade.PurchaseOrderStatusReceived,
		Items: []OrderItemInput{
			{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	assert.True(t, f.product.StockAt(f.wareID).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.product.AverageLandedCost.Equal(decimal.NewFromInt(5)))
}

func TestPurchaseOrderChangeStatusFoldsAndUnfolds(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	order, _, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusDraft))
	require.NoError(t, err)
	require.True(t, f.product.AverageLandedCost.IsZero())

	_, _, err = f.service.ChangeStatus(ctx, order.ID, trade.PurchaseOrderStatusReceived)
	require.NoError(t, err)
	assert.True(t, f.product.AverageLandedCost.Equal(decimal.NewFromInt(5)))

	_, _, err = f.service.ChangeStatus(ctx, order.ID, trade.PurchaseOrderStatusOrdered)
	require.NoError(t, err)
	assert.True(t, f.product.AverageLandedCost.IsZero())
}

func TestPurchaseOrderDeleteReversesEffects(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	order, _, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusReceived))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, order.ID))

	assert.True(t, f.product.StockAt(f.wareID).IsZero())
	assert.True(t, f.product.AverageLandedCost.IsZero())
	_, err = f.service.Get(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderDeleteBlockedByPayments(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	order, _, err := f.service.Create(ctx, f.createRequest(trade.PurchaseOrderStatusDraft))
	require.NoError(t, err)

	payment, err := finance.NewPayment(order.ID, finance.PaymentCategoryProducts, finance.PaymentDirectionOutgoing, time.Now(), decimal.NewFromInt(20), valueobject.BaseCurrency)
	require.NoError(t, err)
	require.NoError(t, f.repos.Payments().Save(ctx, payment))

	err = f.service.Delete(ctx, order.ID)
	var refErr *shared.ReferentialIntegrityError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "payments", refErr.Dependent)
}

func TestPurchaseOrderForeignCurrencyValuation(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("2")
	req := f.createRequest(trade.PurchaseOrderStatusDraft)
	req.Currency = valueobject.USD
	req.ExchangeRate = &rate

	order, warnings, err := f.service.Create(ctx, req)
	require.NoError(t, err)

	assert.Empty(t, warnings)
	// 50 USD at the locked rate of 2.
	assert.True(t, order.Total.Equal(decimal.NewFromInt(100)))
}

func TestPurchaseOrderMissingRateSurfacesWarning(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("0.4")
	req := f.createRequest(trade.PurchaseOrderStatusDraft)
	req.Currency = valueobject.TRY
	req.ExchangeRate = &rate
	req.Fees = decimal.NewFromInt(5)
	req.FeesCurrency = valueobject.GBP
	req.FeesExchangeRate = nil

	// Foreign-currency fees require a locked rate at the aggregate level.
	_, _, err := f.service.Create(ctx, req)
	assert.Error(t, err)
}
