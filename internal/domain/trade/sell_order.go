package trade

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellOrderStatus represents the status of a sell order
type SellOrderStatus string

const (
	SellOrderStatusDraft     SellOrderStatus = "DRAFT"
	SellOrderStatusConfirmed SellOrderStatus = "CONFIRMED"
	SellOrderStatusShipped   SellOrderStatus = "SHIPPED"
)

// IsValid checks if the status is a valid SellOrderStatus
func (s SellOrderStatus) IsValid() bool {
	switch s {
	case SellOrderStatusDraft, SellOrderStatusConfirmed, SellOrderStatusShipped:
		return true
	}
	return false
}

// String returns the string representation of SellOrderStatus
func (s SellOrderStatus) String() string {
	return string(s)
}

// IsShipped returns true once stock has physically left the warehouse.
// Shortfall validation is enforced only at this status; earlier statuses
// represent un-shipped reservations and may be saved with insufficient stock.
func (s SellOrderStatus) IsShipped() bool {
	return s == SellOrderStatusShipped
}

// SellOrder is the sales aggregate root. The total is VAT-inclusive and
// always expressed in the ledger's base currency.
type SellOrder struct {
	shared.BaseAggregateRoot
	OrderNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time `gorm:"not null"`

	Currency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExchangeRate *decimal.Decimal     `gorm:"type:decimal(18,4)"`

	VATPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	Status SellOrderStatus `gorm:"type:varchar(20);not null"`

	// Total in base currency, VAT-inclusive, rounded to the total precision
	Total decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// Links to documents generated at shipment. Their presence blocks
	// deletion of the order until they are cascaded.
	GeneratedTransferID *uuid.UUID `gorm:"type:uuid"`
	GeneratedPaymentID  *uuid.UUID `gorm:"type:uuid"`

	Items []*OrderLineItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (SellOrder) TableName() string {
	return "sell_orders"
}

// NewSellOrder creates a new draft sell order
func NewSellOrder(orderNumber string, customerID, warehouseID uuid.UUID, orderDate time.Time, currency valueobject.Currency) (*SellOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "customer is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id", "source warehouse is required")
	}
	if orderDate.IsZero() {
		return nil, shared.NewValidationError("order_date", "order date is required")
	}
	if currency == "" {
		currency = valueobject.BaseCurrency
	}
	return &SellOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		WarehouseID:       warehouseID,
		OrderDate:         orderDate,
		Currency:          currency,
		VATPercent:        decimal.Zero,
		Status:            SellOrderStatusDraft,
		Total:             decimal.Zero,
		Items:             make([]*OrderLineItem, 0),
	}, nil
}

// SetExchangeRate locks the order exchange rate to base currency
func (o *SellOrder) SetExchangeRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("exchange_rate", "exchange rate must be positive")
	}
	rounded := rate.Round(valueobject.UnitCostPrecision)
	o.ExchangeRate = &rounded
	o.UpdatedAt = time.Now()
	return nil
}

// SetVATPercent sets the VAT percentage applied on top of the line total
func (o *SellOrder) SetVATPercent(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return shared.NewValidationError("vat_percent", "VAT percent cannot be negative")
	}
	o.VATPercent = percent
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem adds a line item to the order
func (o *SellOrder) AddItem(productID uuid.UUID, productName string, qty valueobject.OrderQuantity, price decimal.Decimal) (*OrderLineItem, error) {
	item, err := NewOrderLineItem(o.ID, productID, productName, qty, price)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = time.Now()
	return item, nil
}

// Validate checks the order is internally consistent before any effect is applied
func (o *SellOrder) Validate() error {
	if o.CustomerID == uuid.Nil {
		return shared.NewValidationError("customer_id", "customer is required")
	}
	if o.WarehouseID == uuid.Nil {
		return shared.NewValidationError("warehouse_id", "source warehouse is required")
	}
	if o.OrderDate.IsZero() {
		return shared.NewValidationError("order_date", "order date is required")
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("items", "at least one line item is required")
	}
	if o.Currency != valueobject.BaseCurrency && (o.ExchangeRate == nil || o.ExchangeRate.LessThanOrEqual(decimal.Zero)) {
		return shared.NewValidationError("exchange_rate", "exchange rate is required for foreign-currency orders")
	}
	for _, item := range o.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewValidationError("items", "line quantities must be positive")
		}
	}
	return nil
}

// ChangeStatus moves the order to a new status and emits the shipped event
// on the transition into Shipped
func (o *SellOrder) ChangeStatus(target SellOrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", "invalid sell order status")
	}
	if o.Status == target {
		return nil
	}
	o.Status = target
	o.UpdatedAt = time.Now()

	if target.IsShipped() {
		o.AddDomainEvent(NewSellOrderShippedEvent(o))
	}
	return nil
}

// SetTotal records the computed VAT-inclusive base-currency total
func (o *SellOrder) SetTotal(total decimal.Decimal) {
	o.Total = total.Round(valueobject.TotalPrecision)
	o.UpdatedAt = time.Now()
}

// LinkGeneratedTransfer records the transfer generated at shipment
func (o *SellOrder) LinkGeneratedTransfer(transferID uuid.UUID) {
	o.GeneratedTransferID = &transferID
	o.UpdatedAt = time.Now()
}

// LinkGeneratedPayment records the incoming payment generated at shipment
func (o *SellOrder) LinkGeneratedPayment(paymentID uuid.UUID) {
	o.GeneratedPaymentID = &paymentID
	o.UpdatedAt = time.Now()
}

// HasDependents returns true when generated documents still reference the order
func (o *SellOrder) HasDependents() bool {
	return o.GeneratedTransferID != nil || o.GeneratedPaymentID != nil
}
