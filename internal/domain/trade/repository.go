package trade

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	Save(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindByOrderNumber returns nil without error when no order matches
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	FindAll(ctx context.Context) ([]*PurchaseOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferencingProduct returns how many orders carry a line for the product
	CountReferencingProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	// CountReferencingWarehouse returns how many orders target the warehouse
	CountReferencingWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// SellOrderRepository defines persistence operations for sell orders
type SellOrderRepository interface {
	Save(ctx context.Context, order *SellOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*SellOrder, error)
	// FindByOrderNumber returns nil without error when no order matches
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SellOrder, error)
	FindAll(ctx context.Context) ([]*SellOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferencingProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountReferencingWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// TransferRepository defines persistence operations for transfers
type TransferRepository interface {
	Save(ctx context.Context, transfer *Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindAll(ctx context.Context) ([]*Transfer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferencingWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// UtilizationOrderRepository defines persistence operations for write-offs
type UtilizationOrderRepository interface {
	Save(ctx context.Context, order *UtilizationOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*UtilizationOrder, error)
	FindAll(ctx context.Context) ([]*UtilizationOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
