package finance

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BankAccount is a payment destination with an opening balance. The running
// balance is never stored; it is always derived by replaying the ordered
// transaction sequence.
type BankAccount struct {
	shared.BaseEntity
	Name           string               `gorm:"type:varchar(200);not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	InitialBalance decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	CreationDate   *time.Time           `gorm:""`
}

// TableName returns the table name for GORM
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// NewBankAccount creates a new bank account
func NewBankAccount(name string, currency valueobject.Currency, initialBalance decimal.Decimal, creationDate *time.Time) (*BankAccount, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "account name is required")
	}
	if currency == "" {
		currency = valueobject.BaseCurrency
	}
	return &BankAccount{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Currency:       currency,
		InitialBalance: initialBalance,
		CreationDate:   creationDate,
	}, nil
}

// OpeningDate returns the account creation date, or the epoch sentinel when
// absent, so the synthetic initial transaction always sorts first.
func (a *BankAccount) OpeningDate() time.Time {
	if a.CreationDate != nil {
		return *a.CreationDate
	}
	return time.Unix(0, 0).UTC()
}
