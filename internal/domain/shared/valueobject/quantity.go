package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuantityMode discriminates how an order line quantity was entered
type QuantityMode string

const (
	// QuantityModeBase means the quantity was entered directly in base units
	QuantityModeBase QuantityMode = "base"
	// QuantityModePacked means the quantity was entered as a count of packing
	// units and must be multiplied by the unit's conversion factor
	QuantityModePacked QuantityMode = "packed"
)

// OrderQuantity is a value object representing an order line quantity.
// It is a tagged variant: either a direct base-unit quantity, or a packed
// quantity (count of packing units plus a conversion factor to base units).
// BaseUnits is the single normalization point; the rest of the engine only
// ever sees base units.
// It is immutable - all constructors validate and return new instances.
type OrderQuantity struct {
	mode          QuantityMode
	value         decimal.Decimal // base units, or packed-unit count
	packingUnitID uuid.UUID
	factor        decimal.Decimal // base units per packing unit
}

// NewBaseQuantity creates an OrderQuantity entered directly in base units
func NewBaseQuantity(value decimal.Decimal) (OrderQuantity, error) {
	if value.LessThanOrEqual(decimal.Zero) {
		return OrderQuantity{}, errors.New("quantity must be positive")
	}
	return OrderQuantity{
		mode:   QuantityModeBase,
		value:  value,
		factor: decimal.NewFromInt(1),
	}, nil
}

// NewPackedQuantity creates an OrderQuantity entered as a count of packing
// units with the given conversion factor to base units
func NewPackedQuantity(count decimal.Decimal, packingUnitID uuid.UUID, conversionFactor decimal.Decimal) (OrderQuantity, error) {
	if count.LessThanOrEqual(decimal.Zero) {
		return OrderQuantity{}, errors.New("packing quantity must be positive")
	}
	if packingUnitID == uuid.Nil {
		return OrderQuantity{}, errors.New("packing unit is required for packed quantities")
	}
	if conversionFactor.LessThanOrEqual(decimal.Zero) {
		return OrderQuantity{}, errors.New("conversion factor must be positive")
	}
	return OrderQuantity{
		mode:          QuantityModePacked,
		value:         count,
		packingUnitID: packingUnitID,
		factor:        conversionFactor,
	}, nil
}

// MustNewBaseQuantity creates a base-unit OrderQuantity and panics on error
func MustNewBaseQuantity(value decimal.Decimal) OrderQuantity {
	q, err := NewBaseQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// Mode returns the quantity entry mode
func (q OrderQuantity) Mode() QuantityMode {
	return q.mode
}

// IsPacked returns true if the quantity was entered in packing units
func (q OrderQuantity) IsPacked() bool {
	return q.mode == QuantityModePacked
}

// BaseUnits returns the quantity normalized to base units.
// For packed quantities this is count × conversion factor, rounded to four
// decimal places.
func (q OrderQuantity) BaseUnits() decimal.Decimal {
	if q.mode == QuantityModePacked {
		return q.value.Mul(q.factor).Round(4)
	}
	return q.value
}

// PackedCount returns the entered packing-unit count (zero for base mode)
func (q OrderQuantity) PackedCount() decimal.Decimal {
	if q.mode != QuantityModePacked {
		return decimal.Zero
	}
	return q.value
}

// PackingUnitID returns the packing unit reference (uuid.Nil for base mode)
func (q OrderQuantity) PackingUnitID() uuid.UUID {
	return q.packingUnitID
}

// ConversionFactor returns base units per packing unit (1 for base mode)
func (q OrderQuantity) ConversionFactor() decimal.Decimal {
	return q.factor
}

// String returns a string representation of the quantity
func (q OrderQuantity) String() string {
	if q.mode == QuantityModePacked {
		return fmt.Sprintf("%s x %s", q.value.String(), q.factor.String())
	}
	return q.value.String()
}

// MarshalJSON implements json.Marshaler
func (q OrderQuantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mode             QuantityMode `json:"mode"`
		Value            string       `json:"value"`
		PackingUnitID    uuid.UUID    `json:"packing_unit_id,omitempty"`
		ConversionFactor string       `json:"conversion_factor"`
	}{
		Mode:             q.mode,
		Value:            q.value.String(),
		PackingUnitID:    q.packingUnitID,
		ConversionFactor: q.factor.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (q *OrderQuantity) UnmarshalJSON(data []byte) error {
	var v struct {
		Mode             QuantityMode `json:"mode"`
		Value            string       `json:"value"`
		PackingUnitID    uuid.UUID    `json:"packing_unit_id"`
		ConversionFactor string       `json:"conversion_factor"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	value, err := decimal.NewFromString(v.Value)
	if err != nil {
		return fmt.Errorf("invalid quantity value: %w", err)
	}
	factor := decimal.NewFromInt(1)
	if v.ConversionFactor != "" {
		factor, err = decimal.NewFromString(v.ConversionFactor)
		if err != nil {
			return fmt.Errorf("invalid conversion factor: %w", err)
		}
	}
	q.mode = v.Mode
	q.value = value
	q.packingUnitID = v.PackingUnitID
	q.factor = factor
	return nil
}
