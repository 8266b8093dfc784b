package trade

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferItem is a product/quantity pair on a transfer or utilization order
type TransferItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "transfer_items"
}

// Transfer moves stock between two warehouses. It is purely a quantity
// effect and carries no monetary value.
type Transfer struct {
	shared.BaseAggregateRoot
	SourceWarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	DestWarehouseID   uuid.UUID `gorm:"type:uuid;not null;index"`
	TransferDate      time.Time `gorm:"not null"`

	// SellOrderID links a transfer generated by a sell-order shipment
	SellOrderID *uuid.UUID `gorm:"type:uuid;index"`

	Items []*TransferItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewTransfer creates a new inter-warehouse transfer
func NewTransfer(sourceWarehouseID, destWarehouseID uuid.UUID, transferDate time.Time) (*Transfer, error) {
	if sourceWarehouseID == uuid.Nil {
		return nil, shared.NewValidationError("source_warehouse_id", "source warehouse is required")
	}
	if destWarehouseID == uuid.Nil {
		return nil, shared.NewValidationError("dest_warehouse_id", "destination warehouse is required")
	}
	if sourceWarehouseID == destWarehouseID {
		return nil, shared.NewValidationError("dest_warehouse_id", "source and destination must differ")
	}
	if transferDate.IsZero() {
		return nil, shared.NewValidationError("transfer_date", "transfer date is required")
	}
	return &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SourceWarehouseID: sourceWarehouseID,
		DestWarehouseID:   destWarehouseID,
		TransferDate:      transferDate,
		Items:             make([]*TransferItem, 0),
	}, nil
}

// AddItem adds a product/quantity pair to the transfer
func (t *Transfer) AddItem(productID uuid.UUID, quantity decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewValidationError("product_id", "product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	t.Items = append(t.Items, &TransferItem{
		ID:        uuid.New(),
		OrderID:   t.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	t.UpdatedAt = time.Now()
	return nil
}

// Validate checks the transfer has at least one valid item
func (t *Transfer) Validate() error {
	if len(t.Items) == 0 {
		return shared.NewValidationError("items", "at least one item is required")
	}
	return nil
}

// UtilizationOrder writes off stock at a warehouse: disposal, damage,
// internal consumption. It decreases stock with no counter-warehouse or
// monetary effect.
type UtilizationOrder struct {
	shared.BaseAggregateRoot
	WarehouseID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UtilizationDate time.Time `gorm:"not null"`
	Reason          string    `gorm:"type:varchar(500)"`

	Items []*TransferItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (UtilizationOrder) TableName() string {
	return "utilization_orders"
}

// NewUtilizationOrder creates a new write-off order
func NewUtilizationOrder(warehouseID uuid.UUID, utilizationDate time.Time) (*UtilizationOrder, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id", "warehouse is required")
	}
	if utilizationDate.IsZero() {
		return nil, shared.NewValidationError("utilization_date", "date is required")
	}
	return &UtilizationOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		UtilizationDate:   utilizationDate,
		Items:             make([]*TransferItem, 0),
	}, nil
}

// AddItem adds a product/quantity pair to the write-off
func (u *UtilizationOrder) AddItem(productID uuid.UUID, quantity decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewValidationError("product_id", "product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	u.Items = append(u.Items, &TransferItem{
		ID:        uuid.New(),
		OrderID:   u.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	u.UpdatedAt = time.Now()
	return nil
}

// Validate checks the write-off has at least one valid item
func (u *UtilizationOrder) Validate() error {
	if len(u.Items) == 0 {
		return shared.NewValidationError("items", "at least one item is required")
	}
	return nil
}
