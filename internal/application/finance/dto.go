package finance

import (
	"time"

	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a payment, optionally linked to an order
// and a bank account
type CreatePaymentRequest struct {
	OrderID       *uuid.UUID               `json:"order_id"`
	Category      finance.PaymentCategory  `json:"category" validate:"required"`
	Direction     finance.PaymentDirection `json:"direction" validate:"required"`
	PaymentDate   time.Time                `json:"payment_date" validate:"required"`
	Amount        decimal.Decimal          `json:"amount" validate:"required"`
	Currency      valueobject.Currency     `json:"currency"`
	ExchangeRate  *decimal.Decimal         `json:"exchange_rate"`
	BankAccountID *uuid.UUID               `json:"bank_account_id"`
	Note          string                   `json:"note" validate:"max=500"`
}

// CreateBankAccountRequest registers a bank account. CreationDate anchors
// the synthetic opening entry of the account statement; when absent the
// opening entry sorts before any payment.
type CreateBankAccountRequest struct {
	Name           string               `json:"name" validate:"required,min=1,max=100"`
	Currency       valueobject.Currency `json:"currency"`
	InitialBalance decimal.Decimal      `json:"initial_balance"`
	CreationDate   *time.Time           `json:"creation_date"`
}

// CategoryPaymentStatus reports how much of one payment category an order
// has settled
type CategoryPaymentStatus struct {
	Category finance.PaymentCategory `json:"category"`
	Due      decimal.Decimal         `json:"due"`
	Paid     decimal.Decimal         `json:"paid"`
	Status   finance.PaidStatus      `json:"status"`
}
