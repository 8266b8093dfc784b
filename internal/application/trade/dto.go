package trade

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Purchase Order DTOs ====================

// OrderItemInput is one line of an order request. Quantity is entered either
// directly in base units, or as a packing-unit count which the service
// normalizes using the unit's conversion factor.
type OrderItemInput struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	PackingUnitID   *uuid.UUID       `json:"packing_unit_id"`
	PackingQuantity *decimal.Decimal `json:"packing_quantity"`
	Price           decimal.Decimal  `json:"price"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	OrderNumber      string                    `json:"order_number" validate:"required,min=1,max=50"`
	SupplierID       uuid.UUID                 `json:"supplier_id" validate:"required"`
	WarehouseID      uuid.UUID                 `json:"warehouse_id" validate:"required"`
	OrderDate        time.Time                 `json:"order_date" validate:"required"`
	Currency         valueobject.Currency      `json:"currency"`
	ExchangeRate     *decimal.Decimal          `json:"exchange_rate"`
	Fees             decimal.Decimal           `json:"fees"`
	FeesCurrency     valueobject.Currency      `json:"fees_currency"`
	FeesExchangeRate *decimal.Decimal          `json:"fees_exchange_rate"`
	Status           trade.PurchaseOrderStatus `json:"status"`
	Items            []OrderItemInput          `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest fully replaces a purchase order's editable
// state. The engine reverses the old stock and valuation effects before
// applying the new ones.
type UpdatePurchaseOrderRequest struct {
	SupplierID       uuid.UUID                 `json:"supplier_id" validate:"required"`
	WarehouseID      uuid.UUID                 `json:"warehouse_id" validate:"required"`
	OrderDate        time.Time                 `json:"order_date" validate:"required"`
	Currency         valueobject.Currency      `json:"currency"`
	ExchangeRate     *decimal.Decimal          `json:"exchange_rate"`
	Fees             decimal.Decimal           `json:"fees"`
	FeesCurrency     valueobject.Currency      `json:"fees_currency"`
	FeesExchangeRate *decimal.Decimal          `json:"fees_exchange_rate"`
	Status           trade.PurchaseOrderStatus `json:"status"`
	Items            []OrderItemInput          `json:"items" validate:"required,min=1,dive"`
}

// ==================== Sell Order DTOs ====================

// CreateSellOrderRequest represents a request to create a sell order
type CreateSellOrderRequest struct {
	OrderNumber  string                `json:"order_number" validate:"required,min=1,max=50"`
	CustomerID   uuid.UUID             `json:"customer_id" validate:"required"`
	WarehouseID  uuid.UUID             `json:"warehouse_id" validate:"required"`
	OrderDate    time.Time             `json:"order_date" validate:"required"`
	Currency     valueobject.Currency  `json:"currency"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate"`
	VATPercent   decimal.Decimal       `json:"vat_percent"`
	Status       trade.SellOrderStatus `json:"status"`
	Items        []OrderItemInput      `json:"items" validate:"required,min=1,dive"`
}

// UpdateSellOrderRequest fully replaces a sell order's editable state
type UpdateSellOrderRequest struct {
	CustomerID   uuid.UUID             `json:"customer_id" validate:"required"`
	WarehouseID  uuid.UUID             `json:"warehouse_id" validate:"required"`
	OrderDate    time.Time             `json:"order_date" validate:"required"`
	Currency     valueobject.Currency  `json:"currency"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate"`
	VATPercent   decimal.Decimal       `json:"vat_percent"`
	Status       trade.SellOrderStatus `json:"status"`
	Items        []OrderItemInput      `json:"items" validate:"required,min=1,dive"`
}

// ShipSellOrderRequest controls document generation at shipment
type ShipSellOrderRequest struct {
	// GenerateTransfer routes stock from the Main warehouse through the
	// selling warehouse before shipping (retail flow)
	GenerateTransfer bool `json:"generate_transfer"`
	// GeneratePayment records an incoming payment for the order total
	GeneratePayment bool       `json:"generate_payment"`
	BankAccountID   *uuid.UUID `json:"bank_account_id"`
}

// ==================== Transfer / Utilization DTOs ====================

// TransferItemInput is one product/quantity pair
type TransferItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateTransferRequest represents a request to create a transfer
type CreateTransferRequest struct {
	SourceWarehouseID uuid.UUID           `json:"source_warehouse_id" validate:"required"`
	DestWarehouseID   uuid.UUID           `json:"dest_warehouse_id" validate:"required"`
	TransferDate      time.Time           `json:"transfer_date" validate:"required"`
	Items             []TransferItemInput `json:"items" validate:"required,min=1,dive"`
}

// CreateUtilizationRequest represents a request to create a write-off
type CreateUtilizationRequest struct {
	WarehouseID     uuid.UUID           `json:"warehouse_id" validate:"required"`
	UtilizationDate time.Time           `json:"utilization_date" validate:"required"`
	Reason          string              `json:"reason"`
	Items           []TransferItemInput `json:"items" validate:"required,min=1,dive"`
}
