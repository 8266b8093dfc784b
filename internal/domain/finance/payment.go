package finance

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDirection distinguishes money in from money out
type PaymentDirection string

const (
	PaymentDirectionIncoming PaymentDirection = "INCOMING"
	PaymentDirectionOutgoing PaymentDirection = "OUTGOING"
)

// IsValid checks if the direction is valid
func (d PaymentDirection) IsValid() bool {
	return d == PaymentDirectionIncoming || d == PaymentDirectionOutgoing
}

// PaymentCategory classifies a payment's purpose relative to an order
type PaymentCategory string

const (
	// PaymentCategoryProducts pays for the goods on an order
	PaymentCategoryProducts PaymentCategory = "PRODUCTS"
	// PaymentCategoryFees pays order-level fees
	PaymentCategoryFees PaymentCategory = "FEES"
	// PaymentCategoryTransport pays shipping costs
	PaymentCategoryTransport PaymentCategory = "TRANSPORT"
	// PaymentCategoryManual is an unlinked manual payment
	PaymentCategoryManual PaymentCategory = "MANUAL"
)

// IsValid checks if the category is valid
func (c PaymentCategory) IsValid() bool {
	switch c {
	case PaymentCategoryProducts, PaymentCategoryFees, PaymentCategoryTransport, PaymentCategoryManual:
		return true
	}
	return false
}

// Payment is a single money movement. Payments are immutable once created;
// an edit at the caller level is a delete followed by a recreate.
type Payment struct {
	shared.BaseEntity
	// OrderID links the payment to an order; uuid.Nil means unlinked/manual
	OrderID       uuid.UUID        `gorm:"type:uuid;index"`
	Category      PaymentCategory  `gorm:"type:varchar(20);not null"`
	Direction     PaymentDirection `gorm:"type:varchar(10);not null"`
	PaymentDate   time.Time        `gorm:"not null;index"`
	Amount        decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExchangeRate  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	BankAccountID *uuid.UUID       `gorm:"type:uuid;index"`
	Note          string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment record
func NewPayment(orderID uuid.UUID, category PaymentCategory, direction PaymentDirection, date time.Time, amount decimal.Decimal, cur valueobject.Currency) (*Payment, error) {
	if !category.IsValid() {
		return nil, shared.NewValidationError("category", "invalid payment category")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("direction", "invalid payment direction")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("payment_date", "payment date is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("amount", "payment amount must be positive")
	}
	if cur == "" {
		cur = valueobject.BaseCurrency
	}
	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		Category:    category,
		Direction:   direction,
		PaymentDate: date,
		Amount:      amount,
		Currency:    cur,
	}, nil
}

// SetExchangeRate locks the payment's exchange rate to base currency
func (p *Payment) SetExchangeRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("exchange_rate", "exchange rate must be positive")
	}
	rounded := rate.Round(valueobject.UnitCostPrecision)
	p.ExchangeRate = &rounded
	return nil
}

// SetBankAccount assigns the payment to a bank account
func (p *Payment) SetBankAccount(accountID uuid.UUID) {
	p.BankAccountID = &accountID
}

// IsLinked returns true when the payment references an order
func (p *Payment) IsLinked() bool {
	return p.OrderID != uuid.Nil
}
