package trade

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft    PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusOrdered  PurchaseOrderStatus = "ORDERED"
	PurchaseOrderStatusReceived PurchaseOrderStatus = "RECEIVED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered, PurchaseOrderStatusReceived:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsReceived returns true once goods have arrived and valuation applies
func (s PurchaseOrderStatus) IsReceived() bool {
	return s == PurchaseOrderStatusReceived
}

// PurchaseOrder is the purchase aggregate root. Totals are always expressed
// in the ledger's base currency; line prices and fees carry their own
// currencies with locked exchange rates.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID  uuid.UUID `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time `gorm:"not null"`

	Currency valueobject.Currency `gorm:"type:varchar(3);not null"`
	// ExchangeRate is the locked rate to base currency; required when
	// Currency differs from the base currency
	ExchangeRate *decimal.Decimal `gorm:"type:decimal(18,4)"`

	Fees             decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	FeesCurrency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	FeesExchangeRate *decimal.Decimal     `gorm:"type:decimal(18,4)"`

	Status PurchaseOrderStatus `gorm:"type:varchar(20);not null"`

	// Total in base currency: products subtotal plus fees, rounded to the
	// total precision. Recomputed on every save by the valuation engine.
	Total decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	Items []*OrderLineItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new draft purchase order
func NewPurchaseOrder(orderNumber string, supplierID, warehouseID uuid.UUID, orderDate time.Time, currency valueobject.Currency) (*PurchaseOrder, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier_id", "supplier is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id", "destination warehouse is required")
	}
	if orderDate.IsZero() {
		return nil, shared.NewValidationError("order_date", "order date is required")
	}
	if currency == "" {
		currency = valueobject.BaseCurrency
	}
	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		WarehouseID:       warehouseID,
		OrderDate:         orderDate,
		Currency:          currency,
		FeesCurrency:      valueobject.BaseCurrency,
		Fees:              decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
		Total:             decimal.Zero,
		Items:             make([]*OrderLineItem, 0),
	}, nil
}

// SetExchangeRate locks the order exchange rate to base currency
func (o *PurchaseOrder) SetExchangeRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("exchange_rate", "exchange rate must be positive")
	}
	rounded := rate.Round(valueobject.UnitCostPrecision)
	o.ExchangeRate = &rounded
	o.UpdatedAt = time.Now()
	return nil
}

// SetFees sets the order-level fees with their own currency and optional
// locked exchange rate. Fee currency may differ from the order currency.
func (o *PurchaseOrder) SetFees(fees decimal.Decimal, currency valueobject.Currency, rate *decimal.Decimal) error {
	if fees.IsNegative() {
		return shared.NewValidationError("fees", "fees cannot be negative")
	}
	if currency == "" {
		currency = valueobject.BaseCurrency
	}
	if currency != valueobject.BaseCurrency && (rate == nil || rate.LessThanOrEqual(decimal.Zero)) {
		return shared.NewValidationError("fees_exchange_rate", "exchange rate is required for foreign-currency fees")
	}
	o.Fees = fees
	o.FeesCurrency = currency
	o.FeesExchangeRate = rate
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem adds a line item to the order
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName string, qty valueobject.OrderQuantity, price decimal.Decimal) (*OrderLineItem, error) {
	item, err := NewOrderLineItem(o.ID, productID, productName, qty, price)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = time.Now()
	return item, nil
}

// Validate checks the order is internally consistent before any effect is
// applied. A foreign-currency order must carry a locked exchange rate and at
// least one valid line item.
func (o *PurchaseOrder) Validate() error {
	if o.SupplierID == uuid.Nil {
		return shared.NewValidationError("supplier_id", "supplier is required")
	}
	if o.WarehouseID == uuid.Nil {
		return shared.NewValidationError("warehouse_id", "destination warehouse is required")
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

// ChangeStatus moves the order to a new status. Receiving emits the
// received event that triggers cost valuation; moving out of Received emits
// the reverted event so the valuation fold can be undone.
func (o *PurchaseOrder) ChangeStatus(target PurchaseOrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", "invalid purchase order status")
	}
	if o.Status == target {
		return nil
	}
	previous := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()

	if target.IsReceived() {
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	} else if previous.IsReceived() {
		o.AddDomainEvent(NewPurchaseOrderReceiptRevertedEvent(o))
	}
	return nil
}

// SetTotal records the computed base-currency total
func (o *PurchaseOrder) SetTotal(total decimal.Decimal) {
	o.Total = total.Round(valueobject.TotalPrecision)
	o.UpdatedAt = time.Now()
}
