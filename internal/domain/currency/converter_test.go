package currency

import (
	"testing"

	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() RateTable {
	return RateTable{
		valueobject.USD: decimal.RequireFromString("1.7"),
		valueobject.EUR: decimal.RequireFromString("1.85"),
	}
}

func TestRateTableBaseCurrencyAlwaysResolves(t *testing.T) {
	var empty RateTable
	rate, ok := empty.Rate(valueobject.BaseCurrency)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRateTableRejectsNonPositiveRates(t *testing.T) {
	table := RateTable{valueobject.USD: decimal.Zero}
	_, ok := table.Rate(valueobject.USD)
	assert.False(t, ok)
}

func TestConvertToBase(t *testing.T) {
	converter := NewConverter(testRates())

	got, warn := converter.Convert(decimal.NewFromInt(100), valueobject.USD, valueobject.BaseCurrency)
	require.Nil(t, warn)
	assert.True(t, got.Equal(decimal.RequireFromString("170")), "got %s", got)
}

func TestConvertCrossCurrencyPivotsThroughBase(t *testing.T) {
	converter := NewConverter(testRates())

	// 100 USD = 170 AZN = 170/1.85 EUR
	got, warn := converter.Convert(decimal.NewFromInt(100), valueobject.USD, valueobject.EUR)
	require.Nil(t, warn)
	want := decimal.NewFromInt(170).Div(decimal.RequireFromString("1.85"))
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestConvertSameCurrencyIsIdentity(t *testing.T) {
	converter := NewConverter(nil)

	got, warn := converter.Convert(decimal.RequireFromString("42.42"), valueobject.TRY, valueobject.TRY)
	require.Nil(t, warn)
	assert.True(t, got.Equal(decimal.RequireFromString("42.42")))
}

func TestConvertMissingRateReturnsAmountWithWarning(t *testing.T) {
	converter := NewConverter(testRates())

	got, warn := converter.Convert(decimal.NewFromInt(50), valueobject.GBP, valueobject.BaseCurrency)
	require.NotNil(t, warn)
	assert.Equal(t, valueobject.GBP, warn.Currency)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))
	assert.Contains(t, warn.Error(), "GBP")
}

func TestConvertMissingTargetRateWarnsOnTarget(t *testing.T) {
	converter := NewConverter(testRates())

	got, warn := converter.Convert(decimal.NewFromInt(50), valueobject.USD, valueobject.RUB)
	require.NotNil(t, warn)
	assert.Equal(t, valueobject.RUB, warn.Currency)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))
}

func TestConvertWithRateOverridesSourceOnly(t *testing.T) {
	converter := NewConverter(testRates())
	override := decimal.RequireFromString("1.8")

	// Override applies to the USD side.
	got, warn := converter.ConvertWithRate(decimal.NewFromInt(100), valueobject.USD, valueobject.BaseCurrency, &override)
	require.Nil(t, warn)
	assert.True(t, got.Equal(decimal.NewFromInt(180)), "got %s", got)

	// The EUR target still resolves through the table.
	got, warn = converter.ConvertWithRate(decimal.NewFromInt(100), valueobject.USD, valueobject.EUR, &override)
	require.Nil(t, warn)
	want := decimal.NewFromInt(180).Div(decimal.RequireFromString("1.85"))
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestConvertWithRateSuppliesMissingTableRate(t *testing.T) {
	converter := NewConverter(testRates())
	override := decimal.RequireFromString("0.021")

	got, warn := converter.ConvertWithRate(decimal.NewFromInt(1000), valueobject.RUB, valueobject.BaseCurrency, &override)
	require.Nil(t, warn)
	assert.True(t, got.Equal(decimal.RequireFromString("21")))
}

func TestConvertWithRateIgnoresNonPositiveOverride(t *testing.T) {
	converter := NewConverter(testRates())
	override := decimal.Zero

	got, warn := converter.ConvertWithRate(decimal.NewFromInt(100), valueobject.USD, valueobject.BaseCurrency, &override)
	require.Nil(t, warn)
	assert.True(t, got.Equal(decimal.NewFromInt(170)))
}

func TestToBase(t *testing.T) {
	converter := NewConverter(testRates())

	got, warn := converter.ToBase(decimal.NewFromInt(10), valueobject.EUR, nil)
	require.Nil(t, warn)
	assert.True(t, got.Equal(decimal.RequireFromString("18.5")))
}

func TestConvertMoney(t *testing.T) {
	converter := NewConverter(testRates())
	money := valueobject.NewMoneyBase(decimal.NewFromInt(17))

	got, warn := converter.ConvertMoney(money, valueobject.USD, nil)
	require.Nil(t, warn)
	assert.Equal(t, valueobject.USD, got.Currency())
	assert.True(t, got.Amount().Equal(decimal.NewFromInt(10)))
}
