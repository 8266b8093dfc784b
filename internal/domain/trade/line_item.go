package trade

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem is a line on a purchase or sell order. Quantity is stored
// normalized to base units; the packed entry (if any) is kept for display.
type OrderLineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string    `gorm:"type:varchar(200);not null"`

	// Quantity in base units (> 0)
	Quantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	// Packing entry, when the quantity was entered in a packing unit
	PackingUnitID   *uuid.UUID      `gorm:"type:uuid"`
	PackingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// Price per base unit, in the order's currency
	Price decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	// LandedCostPerUnit is computed by the cost valuation engine on receipt,
	// in the base currency. Zero until the order is received.
	LandedCostPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineItem) TableName() string {
	return "order_line_items"
}

// NewOrderLineItem creates a line item from a normalized order quantity
func NewOrderLineItem(orderID, productID uuid.UUID, productName string, qty valueobject.OrderQuantity, price decimal.Decimal) (*OrderLineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "product is required")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("price", "price cannot be negative")
	}

	now := time.Now()
	item := &OrderLineItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty.BaseUnits(),
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if qty.IsPacked() {
		unitID := qty.PackingUnitID()
		item.PackingUnitID = &unitID
		item.PackingQuantity = qty.PackedCount()
	}
	return item, nil
}

// LineValue returns quantity × price in the order's currency
func (i *OrderLineItem) LineValue() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}

// SetLandedCostPerUnit records the computed landed cost for this line
func (i *OrderLineItem) SetLandedCostPerUnit(cost decimal.Decimal) {
	i.LandedCostPerUnit = cost.Round(valueobject.UnitCostPrecision)
	i.UpdatedAt = time.Now()
}
