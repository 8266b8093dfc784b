package catalog

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog aggregate root. Its per-warehouse stock levels are
// mutated only by the stock ledger, and its average landed cost only by the
// cost valuation engine; nothing else writes these fields.
type Product struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(200);not null"`
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`

	// Stock holds quantity on hand per warehouse, in base units.
	// It is the sum of signed effects of all non-deleted source events.
	Stock StockByWarehouse `gorm:"type:text;serializer:json"`

	// AverageLandedCost is the moving weighted-average landed unit cost in
	// the ledger's base currency. Never negative.
	AverageLandedCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// DefaultPackingUnitID optionally references the packing unit used when
	// entering quantities for this product.
	DefaultPackingUnitID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// StockByWarehouse maps warehouse ID to quantity on hand in base units
type StockByWarehouse map[uuid.UUID]decimal.Decimal

// NewProduct creates a new product with empty stock and zero average cost
func NewProduct(name, code string) (*Product, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "product name is required")
	}
	if code == "" {
		return nil, shared.NewValidationError("code", "product code is required")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Stock:             StockByWarehouse{},
		AverageLandedCost: decimal.Zero,
	}, nil
}

// StockAt returns the quantity on hand at the given warehouse
func (p *Product) StockAt(warehouseID uuid.UUID) decimal.Decimal {
	if p.Stock == nil {
		return decimal.Zero
	}
	qty, ok := p.Stock[warehouseID]
	if !ok {
		return decimal.Zero
	}
	return qty
}

// TotalStock returns the quantity on hand summed across all warehouses
func (p *Product) TotalStock() decimal.Decimal {
	total := decimal.Zero
	for _, qty := range p.Stock {
		total = total.Add(qty)
	}
	return total
}

// AdjustStock applies a signed quantity delta at the given warehouse.
// Callers (the stock ledger) are responsible for shortfall validation;
// this method does not reject negative results.
func (p *Product) AdjustStock(warehouseID uuid.UUID, delta decimal.Decimal) {
	if p.Stock == nil {
		p.Stock = StockByWarehouse{}
	}
	p.Stock[warehouseID] = p.StockAt(warehouseID).Add(delta)
	p.UpdatedAt = time.Now()
}

// SetAverageLandedCost replaces the average landed cost. Only the cost
// valuation engine calls this; the value is floored at zero.
func (p *Product) SetAverageLandedCost(cost decimal.Decimal) {
	if cost.IsNegative() {
		cost = decimal.Zero
	}
	p.AverageLandedCost = cost.Round(valueobject.UnitCostPrecision)
	p.UpdatedAt = time.Now()
}

// AverageLandedCostMoney returns the average landed cost as base-currency Money
func (p *Product) AverageLandedCostMoney() valueobject.Money {
	return valueobject.NewMoneyBase(p.AverageLandedCost)
}
