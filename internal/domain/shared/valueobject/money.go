package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	AZN Currency = "AZN" // Azerbaijani Manat (ledger base)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	TRY Currency = "TRY" // Turkish Lira
	RUB Currency = "RUB" // Russian Ruble
	GBP Currency = "GBP" // British Pound
)

// IsValid reports whether the currency is one of the supported codes
func (c Currency) IsValid() bool {
	switch c {
	case AZN, USD, EUR, TRY, RUB, GBP:
		return true
	}
	return false
}

// BaseCurrency is the fixed reference currency all exchange rates are
// expressed against. Rate tables map a currency to units of BaseCurrency
// per one unit of that currency.
const BaseCurrency = AZN

// TotalPrecision is the decimal precision for stored totals and balances.
const TotalPrecision int32 = 2

// UnitCostPrecision is the decimal precision for unit costs and exchange rates.
const UnitCostPrecision int32 = 4

// Money pairs an amount with its currency. It is immutable; operations
// return new values.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money in the given currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyBase creates Money in the ledger's base currency
func NewMoneyBase(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: BaseCurrency}
}

// Zero returns zero Money in the given currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns the sum. The currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference. The currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by the given factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Round rounds the amount to the given number of decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// RoundTotal rounds to the precision used for stored totals and balances
func (m Money) RoundTotal() Money {
	return m.Round(TotalPrecision)
}

// RoundUnitCost rounds to the precision used for unit costs
func (m Money) RoundUnitCost() Money {
	return m.Round(UnitCostPrecision)
}

// Equals reports whether both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount at total precision with its currency code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(TotalPrecision), m.currency)
}
