package catalog

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PackingUnit is a non-base unit of measure (box, pallet, bag) with a fixed
// conversion factor to base units. Order lines entered in a packing unit are
// normalized to base units before any stock or valuation effect.
type PackingUnit struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(50);not null"`

	// ConversionFactor is base units per one packing unit
	ConversionFactor decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (PackingUnit) TableName() string {
	return "packing_units"
}

// NewPackingUnit creates a new packing unit
func NewPackingUnit(name string, conversionFactor decimal.Decimal) (*PackingUnit, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "packing unit name is required")
	}
	if conversionFactor.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("conversion_factor", "conversion factor must be positive")
	}
	return &PackingUnit{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		ConversionFactor: conversionFactor,
	}, nil
}
