package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Save inserts or updates an order with its line items. Items are replaced
// wholesale since an edit rebuilds the full line set.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", order.ID).Delete(&trade.OrderLineItem{}).Error; err != nil {
		return err
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// FindByID finds an order with its line items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber returns nil without error when no order matches
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll returns all orders with their line items
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context) ([]*trade.PurchaseOrder, error) {
	var orders []*trade.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes an order and its line items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&trade.OrderLineItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&trade.PurchaseOrder{}, "id = ?", id).Error
}

// CountReferencingProduct returns how many orders carry a line for the product
func (r *GormPurchaseOrderRepository) CountReferencingProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.OrderLineItem{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = order_line_items.order_id").
		Where("order_line_items.product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// CountReferencingWarehouse returns how many orders target the warehouse
func (r *GormPurchaseOrderRepository) CountReferencingWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.PurchaseOrder{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&count).Error
	return count, err
}

// GormSellOrderRepository implements SellOrderRepository using GORM
type GormSellOrderRepository struct {
	db *gorm.DB
}

// NewGormSellOrderRepository creates a new GormSellOrderRepository
func NewGormSellOrderRepository(db *gorm.DB) *GormSellOrderRepository {
	return &GormSellOrderRepository{db: db}
}

// Save inserts or updates an order with its line items
func (r *GormSellOrderRepository) Save(ctx context.Context, order *trade.SellOrder) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", order.ID).Delete(&trade.OrderLineItem{}).Error; err != nil {
		return err
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// FindByID finds an order with its line items
func (r *GormSellOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SellOrder, error) {
	var order trade.SellOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber returns nil without error when no order matches
func (r *GormSellOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SellOrder, error) {
	var order trade.SellOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll returns all orders with their line items
func (r *GormSellOrderRepository) FindAll(ctx context.Context) ([]*trade.SellOrder, error) {
	var orders []*trade.SellOrder
	if err := r.db.WithContext(ctx).Preload("Items").Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes an order and its line items
func (r *GormSellOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&trade.OrderLineItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&trade.SellOrder{}, "id = ?", id).Error
}

// CountReferencingProduct returns how many orders carry a line for the product
func (r *GormSellOrderRepository) CountReferencingProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.OrderLineItem{}).
		Joins("JOIN sell_orders ON sell_orders.id = order_line_items.order_id").
		Where("order_line_items.product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// CountReferencingWarehouse returns how many orders target the warehouse
func (r *GormSellOrderRepository) CountReferencingWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.SellOrder{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&count).Error
	return count, err
}

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Save inserts or updates a transfer with its items
func (r *GormTransferRepository) Save(ctx context.Context, transfer *trade.Transfer) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", transfer.ID).Delete(&trade.TransferItem{}).Error; err != nil {
		return err
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(transfer).Error
}

// FindByID finds a transfer with its items
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Transfer, error) {
	var transfer trade.Transfer
	if err := r.db.WithContext(ctx).Preload("Items").First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll returns all transfers with their items
func (r *GormTransferRepository) FindAll(ctx context.Context) ([]*trade.Transfer, error) {
	var transfers []*trade.Transfer
	if err := r.db.WithContext(ctx).Preload("Items").Order("transfer_date desc").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Delete removes a transfer and its items
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&trade.TransferItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&trade.Transfer{}, "id = ?", id).Error
}

// CountReferencingWarehouse returns how many transfers touch the warehouse
func (r *GormTransferRepository) CountReferencingWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&trade.Transfer{}).
		Where("source_warehouse_id = ? OR dest_warehouse_id = ?", warehouseID, warehouseID).
		Count(&count).Error
	return count, err
}

// GormUtilizationOrderRepository implements UtilizationOrderRepository using GORM
type GormUtilizationOrderRepository struct {
	db *gorm.DB
}

// NewGormUtilizationOrderRepository creates a new GormUtilizationOrderRepository
func NewGormUtilizationOrderRepository(db *gorm.DB) *GormUtilizationOrderRepository {
	return &GormUtilizationOrderRepository{db: db}
}

// Save inserts or updates a write-off with its items
func (r *GormUtilizationOrderRepository) Save(ctx context.Context, order *trade.UtilizationOrder) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", order.ID).Delete(&trade.TransferItem{}).Error; err != nil {
		return err
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// FindByID finds a write-off with its items
func (r *GormUtilizationOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.UtilizationOrder, error) {
	var order trade.UtilizationOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns all write-offs with their items
func (r *GormUtilizationOrderRepository) FindAll(ctx context.Context) ([]*trade.UtilizationOrder, error) {
	var orders []*trade.UtilizationOrder
	if err := r.db.WithContext(ctx).Preload("Items").Order("utilization_date desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes a write-off and its items
func (r *GormUtilizationOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&trade.TransferItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&trade.UtilizationOrder{}, "id = ?", id).Error
}

var (
	_ trade.PurchaseOrderRepository    = (*GormPurchaseOrderRepository)(nil)
	_ trade.SellOrderRepository        = (*GormSellOrderRepository)(nil)
	_ trade.TransferRepository         = (*GormTransferRepository)(nil)
	_ trade.UtilizationOrderRepository = (*GormUtilizationOrderRepository)(nil)
)
