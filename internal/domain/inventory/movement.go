package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind identifies the source event behind a stock movement
type MovementKind string

const (
	// MovementKindReceipt increases stock at the destination warehouse
	MovementKindReceipt MovementKind = "RECEIPT"
	// MovementKindShipment decreases stock at the source warehouse
	MovementKindShipment MovementKind = "SHIPMENT"
	// MovementKindTransfer moves stock from source to destination
	MovementKindTransfer MovementKind = "TRANSFER"
	// MovementKindUtilization writes stock off at the source warehouse,
	// clamped at zero
	MovementKindUtilization MovementKind = "UTILIZATION"
)

// MovementLine is one product effect within a movement
type MovementLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Movement is the neutral stock effect of an order, transfer or write-off.
// The lifecycle controller builds one from each source document; the ledger
// only ever sees movements.
type Movement struct {
	Kind              MovementKind
	SourceWarehouseID uuid.UUID
	DestWarehouseID   uuid.UUID
	Lines             []MovementLine

	// CheckShortfall enforces the availability precondition. It is set for
	// committed shipments and all transfers; draft and confirmed sell orders
	// leave it unset so un-shipped reservations can be saved against
	// insufficient stock.
	CheckShortfall bool
}

// NewReceiptMovement builds the stock effect of a purchase receipt
func NewReceiptMovement(destWarehouseID uuid.UUID, lines []MovementLine) Movement {
	return Movement{
		Kind:            MovementKindReceipt,
		DestWarehouseID: destWarehouseID,
		Lines:           lines,
	}
}

// NewShipmentMovement builds the stock effect of a sell shipment.
// checkShortfall is set when the order status signifies a committed shipment.
func NewShipmentMovement(sourceWarehouseID uuid.UUID, lines []MovementLine, checkShortfall bool) Movement {
	return Movement{
		Kind:              MovementKindShipment,
		SourceWarehouseID: sourceWarehouseID,
		Lines:             lines,
		CheckShortfall:    checkShortfall,
	}
}

// NewTransferMovement builds the stock effect of an inter-warehouse transfer
func NewTransferMovement(sourceWarehouseID, destWarehouseID uuid.UUID, lines []MovementLine) Movement {
	return Movement{
		Kind:              MovementKindTransfer,
		SourceWarehouseID: sourceWarehouseID,
		DestWarehouseID:   destWarehouseID,
		Lines:             lines,
		CheckShortfall:    true,
	}
}

// NewUtilizationMovement builds the stock effect of a write-off
func NewUtilizationMovement(warehouseID uuid.UUID, lines []MovementLine) Movement {
	return Movement{
		Kind:              MovementKindUtilization,
		SourceWarehouseID: warehouseID,
		Lines:             lines,
	}
}
