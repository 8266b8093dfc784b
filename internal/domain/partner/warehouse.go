package partner

import (
	"github.com/erp/stockledger/internal/domain/shared"
)

// WarehouseType classifies a warehouse
type WarehouseType string

const (
	// WarehouseTypeMain is the single primary warehouse. Exactly one Main
	// warehouse must exist at any time; the warehouse service enforces this
	// at save time and the stock ledger assumes it when routing transfers.
	WarehouseTypeMain    WarehouseType = "MAIN"
	WarehouseTypeStorage WarehouseType = "STORAGE"
	WarehouseTypeRetail  WarehouseType = "RETAIL"
)

// IsValid checks if the type is a valid WarehouseType
func (t WarehouseType) IsValid() bool {
	switch t {
	case WarehouseTypeMain, WarehouseTypeStorage, WarehouseTypeRetail:
		return true
	}
	return false
}

// String returns the string representation of WarehouseType
func (t WarehouseType) String() string {
	return string(t)
}

// Warehouse is a stock-holding location
type Warehouse struct {
	shared.BaseEntity
	Name string        `gorm:"type:varchar(200);not null"`
	Type WarehouseType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(name string, warehouseType WarehouseType) (*Warehouse, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "warehouse name is required")
	}
	if !warehouseType.IsValid() {
		return nil, shared.NewValidationError("type", "invalid warehouse type")
	}
	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Type:       warehouseType,
	}, nil
}

// IsMain returns true for the primary warehouse
func (w *Warehouse) IsMain() bool {
	return w.Type == WarehouseTypeMain
}
