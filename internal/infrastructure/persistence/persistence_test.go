package persistence

import (
	"context"
	"testing"
	"time"

	apptrade "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func baseQty(t *testing.T, value string) valueobject.OrderQuantity {
	t.Helper()
	qty, err := valueobject.NewBaseQuantity(decimal.RequireFromString(value))
	require.NoError(t, err)
	return qty
}

func TestGormProductRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	product, err := catalog.NewProduct("Olive Oil", "OIL-001")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Olive Oil", found.Name)
	assert.Equal(t, "OIL-001", found.Code)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	other, err := catalog.NewProduct("Flour", "FLR-001")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	byIDs, err := repo.FindByIDs(ctx, []uuid.UUID{product.ID, other.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	require.NoError(t, repo.Delete(ctx, other.ID))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormProductRepositoryCountReferencingPackingUnit(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db.DB)
	units := NewGormPackingUnitRepository(db.DB)
	ctx := context.Background()

	unit, err := catalog.NewPackingUnit("Box of 12", decimal.NewFromInt(12))
	require.NoError(t, err)
	require.NoError(t, units.Save(ctx, unit))

	product, err := catalog.NewProduct("Olive Oil", "OIL-001")
	require.NoError(t, err)
	product.DefaultPackingUnitID = &unit.ID
	require.NoError(t, products.Save(ctx, product))

	count, err := products.CountReferencingPackingUnit(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = products.CountReferencingPackingUnit(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormWarehouseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWarehouseRepository(db.DB)
	ctx := context.Background()

	main, err := partner.NewWarehouse("Main", partner.WarehouseTypeMain)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, main))

	shop, err := partner.NewWarehouse("Shop", partner.WarehouseTypeRetail)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, shop))

	found, err := repo.FindMain(ctx)
	require.NoError(t, err)
	assert.Equal(t, main.ID, found.ID)

	count, err := repo.CountByType(ctx, partner.WarehouseTypeMain, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountByType(ctx, partner.WarehouseTypeMain, main.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormPurchaseOrderRepositorySaveReloadsItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db.DB)
	ctx := context.Background()

	order, err := trade.NewPurchaseOrder("PO-001", uuid.New(), uuid.New(), time.Now(), valueobject.USD)
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Olive Oil", baseQty(t, "10"), decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Flour", baseQty(t, "20"), decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.Equal(t, order.ID, found.Items[0].OrderID)

	// A re-save after removing a line must not leave orphan rows behind.
	found.Items = found.Items[:1]
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 1)
}

func TestGormPurchaseOrderRepositoryFindByOrderNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db.DB)
	ctx := context.Background()

	order, err := trade.NewPurchaseOrder("PO-001", uuid.New(), uuid.New(), time.Now(), valueobject.BaseCurrency)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByOrderNumber(ctx, "PO-001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)

	missing, err := repo.FindByOrderNumber(ctx, "PO-999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormPurchaseOrderRepositoryCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db.DB)
	ctx := context.Background()

	productID := uuid.New()
	warehouseID := uuid.New()

	order, err := trade.NewPurchaseOrder("PO-001", uuid.New(), warehouseID, time.Now(), valueobject.BaseCurrency)
	require.NoError(t, err)
	_, err = order.AddItem(productID, "Olive Oil", baseQty(t, "10"), decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	count, err := repo.CountReferencingProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountReferencingWarehouse(ctx, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountReferencingProduct(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormSellOrderRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSellOrderRepository(db.DB)
	ctx := context.Background()

	order, err := trade.NewSellOrder("SO-001", uuid.New(), uuid.New(), time.Now(), valueobject.BaseCurrency)
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Olive Oil", baseQty(t, "3"), decimal.NewFromInt(8))
	require.NoError(t, err)
	transferID := uuid.New()
	order.GeneratedTransferID = &transferID
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.GeneratedTransferID)
	assert.Equal(t, transferID, *found.GeneratedTransferID)

	require.NoError(t, repo.Delete(ctx, order.ID))
	_, err = repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransferRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransferRepository(db.DB)
	ctx := context.Background()

	source := uuid.New()
	dest := uuid.New()
	transfer, err := trade.NewTransfer(source, dest, time.Now())
	require.NoError(t, err)
	require.NoError(t, transfer.AddItem(uuid.New(), decimal.NewFromInt(4)))
	require.NoError(t, repo.Save(ctx, transfer))

	found, err := repo.FindByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)

	count, err := repo.CountReferencingWarehouse(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountReferencingWarehouse(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountReferencingWarehouse(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormUtilizationOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUtilizationOrderRepository(db.DB)
	ctx := context.Background()

	order, err := trade.NewUtilizationOrder(uuid.New(), time.Now())
	require.NoError(t, err)
	order.Reason = "damaged in storage"
	require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(2)))
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "damaged in storage", found.Reason)
	assert.Len(t, found.Items, 1)

	require.NoError(t, repo.Delete(ctx, order.ID))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGormPaymentRepository(t *testing.T) {
	db := setupTestDB(t)
	payments := NewGormPaymentRepository(db.DB)
	accounts := NewGormBankAccountRepository(db.DB)
	ctx := context.Background()

	account, err := finance.NewBankAccount("Operating", valueobject.BaseCurrency, decimal.NewFromInt(1000), nil)
	require.NoError(t, err)
	require.NoError(t, accounts.Save(ctx, account))

	orderID := uuid.New()
	payment, err := finance.NewPayment(orderID, finance.PaymentCategoryProducts, finance.PaymentDirectionOutgoing, time.Now(), decimal.NewFromInt(500), valueobject.BaseCurrency)
	require.NoError(t, err)
	payment.SetBankAccount(account.ID)
	require.NoError(t, payments.Save(ctx, payment))

	byOrder, err := payments.FindByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, byOrder, 1)

	byAccount, err := payments.FindByBankAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, byAccount, 1)

	count, err := payments.CountReferencingBankAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, payments.Delete(ctx, payment.ID))
	count, err = payments.CountReferencingBankAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormTransactionScopeRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db.DB)
	ctx := context.Background()

	product, err := catalog.NewProduct("Olive Oil", "OIL-001")
	require.NoError(t, err)

	wantErr := assert.AnError
	err = scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, err = NewGormProductRepository(db.DB).FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransactionScopeCommits(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db.DB)
	ctx := context.Background()

	product, err := catalog.NewProduct("Flour", "FLR-001")
	require.NoError(t, err)

	err = scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		return repos.Products().Save(ctx, product)
	})
	require.NoError(t, err)

	found, err := NewGormProductRepository(db.DB).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "FLR-001", found.Code)
}
