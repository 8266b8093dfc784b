package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. They store aggregates by
// pointer, which matches the transactional contract: mutations inside a
// scope are visible on subsequent reads within the same test.

type memProductRepo struct {
	items map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: map[uuid.UUID]*catalog.Product{}}
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.items[product.ID] = product
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memProductRepo) CountReferencingPackingUnit(_ context.Context, unitID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.items {
		if p.DefaultPackingUnitID != nil && *p.DefaultPackingUnitID == unitID {
			count++
		}
	}
	return count, nil
}

type memPackingUnitRepo struct {
	items map[uuid.UUID]*catalog.PackingUnit
}

func newMemPackingUnitRepo() *memPackingUnitRepo {
	return &memPackingUnitRepo{items: map[uuid.UUID]*catalog.PackingUnit{}}
}

func (r *memPackingUnitRepo) Save(_ context.Context, unit *catalog.PackingUnit) error {
	r.items[unit.ID] = unit
	return nil
}

func (r *memPackingUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.PackingUnit, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memPackingUnitRepo) FindAll(_ context.Context) ([]*catalog.PackingUnit, error) {
	out := make([]*catalog.PackingUnit, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, u)
	}
	return out, nil
}

func (r *memPackingUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type memWarehouseRepo struct {
	items map[uuid.UUID]*partner.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{items: map[uuid.UUID]*partner.Warehouse{}}
}

func (r *memWarehouseRepo) Save(_ context.Context, warehouse *partner.Warehouse) error {
	r.items[warehouse.ID] = warehouse
	return nil
}

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	w, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return w, nil
}

func (r *memWarehouseRepo) FindAll(_ context.Context) ([]*partner.Warehouse, error) {
	out := make([]*partner.Warehouse, 0, len(r.items))
	for _, w := range r.items {
		out = append(out, w)
	}
	return out, nil
}

func (r *memWarehouseRepo) FindMain(_ context.Context) (*partner.Warehouse, error) {
	for _, w := range r.items {
		if w.Type == partner.WarehouseTypeMain {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) CountByType(_ context.Context, warehouseType partner.WarehouseType, excludeID uuid.UUID) (int64, error) {
	var count int64
	for _, w := range r.items {
		if w.Type == warehouseType && w.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (r *memWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type memPurchaseOrderRepo struct {
	items map[uuid.UUID]*trade.PurchaseOrder
}

func newMemPurchaseOrderRepo() *memPurchaseOrderRepo {
	return &memPurchaseOrderRepo{items: map[uuid.UUID]*trade.PurchaseOrder{}}
}

func (r *memPurchaseOrderRepo) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.items[order.ID] = order
	return nil
}

func (r *memPurchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memPurchaseOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	for _, o := range r.items {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, nil
}

func (r *memPurchaseOrderRepo) FindAll(_ context.Context) ([]*trade.PurchaseOrder, error) {
	out := make([]*trade.PurchaseOrder, 0, len(r.items))
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, nil
}

func (r *memPurchaseOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memPurchaseOrderRepo) CountReferencingProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.items {
		for _, item := range o.Items {
			if item.ProductID == productID {
				count++
			}
		}
	}
	return count, nil
}

func (r *memPurchaseOrderRepo) CountReferencingWarehouse(_ context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.items {
		if o.WarehouseID == warehouseID {
			count++
		}
	}
	return count, nil
}

type memSellOrderRepo struct {
	items map[uuid.UUID]*trade.SellOrder
}

func newMemSellOrderRepo() *memSellOrderRepo {
	return &memSellOrderRepo{items: map[uuid.UUID]*trade.SellOrder{}}
}

func (r *memSellOrderRepo) Save(_ context.Context, order *trade.SellOrder) error {
	r.items[order.ID] = order
	return nil
}

func (r *memSellOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SellOrder, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memSellOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.SellOrder, error) {
	for _, o := range r.items {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, nil
}

func (r *memSellOrderRepo) FindAll(_ context.Context) ([]*trade.SellOrder, error) {
	out := make([]*trade.SellOrder, 0, len(r.items))
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, nil
}

func (r *memSellOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memSellOrderRepo) CountReferencingProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.items {
		for _, item := range o.Items {
			if item.ProductID == productID {
				count++
			}
		}
	}
	return count, nil
}

func (r *memSellOrderRepo) CountReferencingWarehouse(_ context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range r.items {
		if o.WarehouseID == warehouseID {
			count++
		}
	}
	return count, nil
}

type memTransferRepo struct {
	items map[uuid.UUID]*trade.Transfer
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{items: map[uuid.UUID]*trade.Transfer{}}
}

func (r *memTransferRepo) Save(_ context.Context, transfer *trade.Transfer) error {
	r.items[transfer.ID] = transfer
	return nil
}

func (r *memTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Transfer, error) {
	tr, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return tr, nil
}

func (r *memTransferRepo) FindAll(_ context.Context) ([]*trade.Transfer, error) {
	out := make([]*trade.Transfer, 0, len(r.items))
	for _, tr := range r.items {
		out = append(out, tr)
	}
	return out, nil
}

func (r *memTransferRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memTransferRepo) CountReferencingWarehouse(_ context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	for _, tr := range r.items {
		if tr.SourceWarehouseID == warehouseID || tr.DestWarehouseID == warehouseID {
			count++
		}
	}
	return count, nil
}

type memUtilizationRepo struct {
	items map[uuid.UUID]*trade.UtilizationOrder
}

func newMemUtilizationRepo() *memUtilizationRepo {
	return &memUtilizationRepo{items: map[uuid.UUID]*trade.UtilizationOrder{}}
}

func (r *memUtilizationRepo) Save(_ context.Context, order *trade.UtilizationOrder) error {
	r.items[order.ID] = order
	return nil
}

func (r *memUtilizationRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.UtilizationOrder, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memUtilizationRepo) FindAll(_ context.Context) ([]*trade.UtilizationOrder, error) {
	out := make([]*trade.UtilizationOrder, 0, len(r.items))
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, nil
}

func (r *memUtilizationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type memPaymentRepo struct {
	items map[uuid.UUID]*finance.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{items: map[uuid.UUID]*finance.Payment{}}
}

func (r *memPaymentRepo) Save(_ context.Context, payment *finance.Payment) error {
	r.items[payment.ID] = payment
	return nil
}

func (r *memPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Payment, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memPaymentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) ([]*finance.Payment, error) {
	var out []*finance.Payment
	for _, p := range r.items {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) FindByBankAccountID(_ context.Context, accountID uuid.UUID) ([]*finance.Payment, error) {
	var out []*finance.Payment
	for _, p := range r.items {
		if p.BankAccountID != nil && *p.BankAccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) FindAll(_ context.Context) ([]*finance.Payment, error) {
	out := make([]*finance.Payment, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memPaymentRepo) CountReferencingBankAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.items {
		if p.BankAccountID != nil && *p.BankAccountID == accountID {
			count++
		}
	}
	return count, nil
}

type memBankAccountRepo struct {
	items map[uuid.UUID]*finance.BankAccount
}

func newMemBankAccountRepo() *memBankAccountRepo {
	return &memBankAccountRepo{items: map[uuid.UUID]*finance.BankAccount{}}
}

func (r *memBankAccountRepo) Save(_ context.Context, account *finance.BankAccount) error {
	r.items[account.ID] = account
	return nil
}

func (r *memBankAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *memBankAccountRepo) FindAll(_ context.Context) ([]*finance.BankAccount, error) {
	out := make([]*finance.BankAccount, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}

func (r *memBankAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

// newMemRepositorySet wires a full in-memory repository set for a test
func newMemRepositorySet() RepositorySet {
	return RepositorySet{
		ProductRepo:     newMemProductRepo(),
		PackingUnitRepo: newMemPackingUnitRepo(),
		WarehouseRepo:   newMemWarehouseRepo(),
		PurchaseRepo:    newMemPurchaseOrderRepo(),
		SellRepo:        newMemSellOrderRepo(),
		TransferRepo:    newMemTransferRepo(),
		UtilizationRepo: newMemUtilizationRepo(),
		PaymentRepo:     newMemPaymentRepo(),
		BankAccountRepo: newMemBankAccountRepo(),
	}
}
