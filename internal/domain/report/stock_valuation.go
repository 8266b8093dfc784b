package report

import (
	"sort"
	"time"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockValuationLine values one product's holdings: quantity on hand per
// warehouse and in total, priced at the product's average landed cost.
type StockValuationLine struct {
	ProductID           uuid.UUID                     `json:"product_id"`
	ProductCode         string                        `json:"product_code"`
	ProductName         string                        `json:"product_name"`
	QuantityByWarehouse map[uuid.UUID]decimal.Decimal `json:"quantity_by_warehouse"`
	TotalQuantity       decimal.Decimal               `json:"total_quantity"`
	AverageLandedCost   decimal.Decimal               `json:"average_landed_cost"`
	StockValue          decimal.Decimal               `json:"stock_value"`
}

// WarehouseValuation sums stock value held at one warehouse
type WarehouseValuation struct {
	WarehouseID   uuid.UUID             `json:"warehouse_id"`
	WarehouseName string                `json:"warehouse_name"`
	WarehouseType partner.WarehouseType `json:"warehouse_type"`
	StockValue    decimal.Decimal       `json:"stock_value"`
}

// StockValuationReport is a point-in-time snapshot of inventory value in
// base currency. Value is quantity times average landed cost; products with
// no stock anywhere are omitted.
type StockValuationReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Lines       []StockValuationLine `json:"lines"`
	ByWarehouse []WarehouseValuation `json:"by_warehouse"`
	TotalValue  decimal.Decimal      `json:"total_value"`
}

// BuildStockValuation derives the valuation snapshot from current product
// stock and the warehouse list. Lines are ordered by product code, warehouse
// totals by warehouse name.
func BuildStockValuation(products []*catalog.Product, warehouses []*partner.Warehouse) StockValuationReport {
	rep := StockValuationReport{
		GeneratedAt: time.Now(),
		TotalValue:  decimal.Zero,
	}

	valueByWarehouse := make(map[uuid.UUID]decimal.Decimal, len(warehouses))

	for _, product := range products {
		total := product.TotalStock()
		if total.IsZero() {
			continue
		}

		line := StockValuationLine{
			ProductID:           product.ID,
			ProductCode:         product.Code,
			ProductName:         product.Name,
			QuantityByWarehouse: make(map[uuid.UUID]decimal.Decimal, len(product.Stock)),
			TotalQuantity:       total,
			AverageLandedCost:   product.AverageLandedCost,
			StockValue:          total.Mul(product.AverageLandedCost).Round(valueobject.TotalPrecision),
		}
		for warehouseID, qty := range product.Stock {
			if qty.IsZero() {
				continue
			}
			line.QuantityByWarehouse[warehouseID] = qty
			value := qty.Mul(product.AverageLandedCost)
			valueByWarehouse[warehouseID] = valueByWarehouse[warehouseID].Add(value)
		}

		rep.Lines = append(rep.Lines, line)
		rep.TotalValue = rep.TotalValue.Add(line.StockValue)
	}

	sort.Slice(rep.Lines, func(i, j int) bool {
		return rep.Lines[i].ProductCode < rep.Lines[j].ProductCode
	})

	for _, warehouse := range warehouses {
		value, ok := valueByWarehouse[warehouse.ID]
		if !ok {
			value = decimal.Zero
		}
		rep.ByWarehouse = append(rep.ByWarehouse, WarehouseValuation{
			WarehouseID:   warehouse.ID,
			WarehouseName: warehouse.Name,
			WarehouseType: warehouse.Type,
			StockValue:    value.Round(valueobject.TotalPrecision),
		})
	}
	sort.Slice(rep.ByWarehouse, func(i, j int) bool {
		return rep.ByWarehouse[i].WarehouseName < rep.ByWarehouse[j].WarehouseName
	})

	return rep
}
