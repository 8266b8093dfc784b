package currency

import (
	"fmt"

	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RateTable maps a currency code to its exchange rate against the base
// currency: units of base currency per one unit of the keyed currency.
// The base currency itself does not need an entry; it is implicitly 1.
type RateTable map[valueobject.Currency]decimal.Decimal

// Rate returns the configured rate for a currency. The base currency always
// resolves to 1 regardless of table contents.
func (t RateTable) Rate(c valueobject.Currency) (decimal.Decimal, bool) {
	if c == valueobject.BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	rate, ok := t[c]
	if !ok || rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, false
	}
	return rate, true
}

// RateMissingWarning signals that a conversion could not find a usable rate
// and returned the amount unconverted. Conversions never fail hard on a
// missing rate: blocking a financial display on missing configuration is
// worse than showing an approximate figure. It implements error so callers
// can log it, but it is returned on a separate channel from real failures.
type RateMissingWarning struct {
	Currency valueobject.Currency
	Amount   decimal.Decimal
}

// Error implements the error interface
func (w *RateMissingWarning) Error() string {
	return fmt.Sprintf("no exchange rate configured for %s; amount %s returned unconverted",
		w.Currency, w.Amount.String())
}

// Converter converts monetary amounts between currencies using a rate table
// and optional per-conversion override rates. All methods are pure and safe
// for concurrent use as long as the rate table is not mutated.
type Converter struct {
	rates RateTable
}

// NewConverter creates a converter over the given rate table
func NewConverter(rates RateTable) *Converter {
	if rates == nil {
		rates = RateTable{}
	}
	return &Converter{rates: rates}
}

// Convert converts an amount from one currency to another via the base
// currency pivot. When either rate is missing the original amount is
// returned unchanged together with a RateMissingWarning.
// No rounding is applied; callers round at storage or display boundaries.
func (c *Converter) Convert(amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, *RateMissingWarning) {
	return c.ConvertWithRate(amount, from, to, nil)
}

// ConvertWithRate converts an amount using an optional override rate for the
// source currency. The override replaces the table rate for `from` only;
// the target side always resolves through the table. This supports orders
// and payments that locked an exchange rate at entry time.
func (c *Converter) ConvertWithRate(amount decimal.Decimal, from, to valueobject.Currency, overrideRate *decimal.Decimal) (decimal.Decimal, *RateMissingWarning) {
	if from == to {
		return amount, nil
	}

	fromRate, ok := c.rates.Rate(from)
	if overrideRate != nil && overrideRate.GreaterThan(decimal.Zero) {
		fromRate, ok = *overrideRate, true
	}
	if !ok {
		return amount, &RateMissingWarning{Currency: from, Amount: amount}
	}

	toRate, ok := c.rates.Rate(to)
	if !ok {
		return amount, &RateMissingWarning{Currency: to, Amount: amount}
	}

	return amount.Mul(fromRate).Div(toRate), nil
}

// ToBase converts an amount into the ledger's base currency
func (c *Converter) ToBase(amount decimal.Decimal, from valueobject.Currency, overrideRate *decimal.Decimal) (decimal.Decimal, *RateMissingWarning) {
	return c.ConvertWithRate(amount, from, valueobject.BaseCurrency, overrideRate)
}

// ConvertMoney converts a Money value into the target currency
func (c *Converter) ConvertMoney(m valueobject.Money, to valueobject.Currency, overrideRate *decimal.Decimal) (valueobject.Money, *RateMissingWarning) {
	amount, warn := c.ConvertWithRate(m.Amount(), m.Currency(), to, overrideRate)
	converted, _ := valueobject.NewMoney(amount, to)
	return converted, warn
}
