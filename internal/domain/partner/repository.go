package partner

import (
	"context"

	"github.com/google/uuid"
)

// WarehouseRepository defines persistence operations for warehouses
type WarehouseRepository interface {
	Save(ctx context.Context, warehouse *Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindAll(ctx context.Context) ([]*Warehouse, error)
	// FindMain returns the single Main warehouse
	FindMain(ctx context.Context) (*Warehouse, error)
	// CountByType returns how many warehouses exist of the given type,
	// excluding the given ID (uuid.Nil excludes nothing)
	CountByType(ctx context.Context, warehouseType WarehouseType, excludeID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	Save(ctx context.Context, supplier *Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context) ([]*Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context) ([]*Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
