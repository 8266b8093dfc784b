package finance

import (
	"sort"
	"time"

	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind orders same-day transactions deterministically: an opening
// balance never renders after a same-day payment.
type TransactionKind int

const (
	TransactionKindInitial TransactionKind = iota
	TransactionKindIncoming
	TransactionKindOutgoing
)

// String returns a display name for the transaction kind
func (k TransactionKind) String() string {
	switch k {
	case TransactionKindInitial:
		return "initial"
	case TransactionKindIncoming:
		return "incoming"
	case TransactionKindOutgoing:
		return "outgoing"
	}
	return "unknown"
}

// BalanceEntry is one row of a derived running-balance sequence
type BalanceEntry struct {
	TransactionID uuid.UUID
	Date          time.Time
	Kind          TransactionKind
	// Amount in the account's currency, signed per kind at walk time
	Amount decimal.Decimal
	// BalanceAfter is the running balance immediately after this transaction
	BalanceAfter decimal.Decimal
}

// FullyPaidEpsilon absorbs rounding drift from repeated currency conversion
// when deciding whether an order category is fully paid.
var FullyPaidEpsilon = decimal.NewFromFloat(0.001)

// PaidStatus summarizes how much of a category's value has been paid
type PaidStatus string

const (
	PaidStatusUnpaid    PaidStatus = "UNPAID"
	PaidStatusPartial   PaidStatus = "PARTIAL"
	PaidStatusFullyPaid PaidStatus = "FULLY_PAID"
)

// OrderCategoryKey groups payments by order and purpose
type OrderCategoryKey struct {
	OrderID  uuid.UUID
	Category PaymentCategory
}

// PaymentLedger derives running balances for bank accounts and paid-to-date
// totals per order and category from an unordered set of payment records.
type PaymentLedger struct {
	converter *currency.Converter
}

// NewPaymentLedger creates a payment ledger over the given converter
func NewPaymentLedger(converter *currency.Converter) *PaymentLedger {
	return &PaymentLedger{converter: converter}
}

// ComputeRunningBalance replays an account's transactions in chronological
// order from its initial balance. The input payment order is irrelevant; the
// ledger sorts by (date, kind ordinal, transaction ID) internally. Payments
// in other currencies are converted to the account currency using their own
// locked rates; conversion is fail-soft and collects warnings.
func (l *PaymentLedger) ComputeRunningBalance(account *BankAccount, payments []*Payment) ([]BalanceEntry, []*currency.RateMissingWarning) {
	var warnings []*currency.RateMissingWarning

	entries := make([]BalanceEntry, 0, len(payments)+1)
	entries = append(entries, BalanceEntry{
		TransactionID: account.ID,
		Date:          account.OpeningDate(),
		Kind:          TransactionKindInitial,
		Amount:        account.InitialBalance,
	})

	for _, p := range payments {
		if p.BankAccountID == nil || *p.BankAccountID != account.ID {
			continue
		}
		amount, warn := l.converter.ConvertWithRate(p.Amount, p.Currency, account.Currency, p.ExchangeRate)
		if warn != nil {
			warnings = append(warnings, warn)
		}
		kind := TransactionKindIncoming
		if p.Direction == PaymentDirectionOutgoing {
			kind = TransactionKindOutgoing
		}
		entries = append(entries, BalanceEntry{
			TransactionID: p.ID,
			Date:          p.PaymentDate,
			Kind:          kind,
			Amount:        amount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].TransactionID.String() < entries[j].TransactionID.String()
	})

	running := decimal.Zero
	for i := range entries {
		switch entries[i].Kind {
		case TransactionKindInitial:
			running = entries[i].Amount
		case TransactionKindIncoming:
			running = running.Add(entries[i].Amount)
		case TransactionKindOutgoing:
			running = running.Sub(entries[i].Amount)
		}
		entries[i].BalanceAfter = running.Round(valueobject.TotalPrecision)
	}
	return entries, warnings
}

// FinalBalance returns the balance after the last transaction, or the
// initial balance when the account has no payments.
func (l *PaymentLedger) FinalBalance(account *BankAccount, payments []*Payment) (decimal.Decimal, []*currency.RateMissingWarning) {
	entries, warnings := l.ComputeRunningBalance(account, payments)
	return entries[len(entries)-1].BalanceAfter, warnings
}

// PaidToDate sums converted payment amounts per (order, category) in base
// currency. Unlinked payments group under uuid.Nil.
func (l *PaymentLedger) PaidToDate(payments []*Payment) (map[OrderCategoryKey]decimal.Decimal, []*currency.RateMissingWarning) {
	var warnings []*currency.RateMissingWarning
	totals := make(map[OrderCategoryKey]decimal.Decimal)

	for _, p := range payments {
		amount, warn := l.converter.ToBase(p.Amount, p.Currency, p.ExchangeRate)
		if warn != nil {
			warnings = append(warnings, warn)
		}
		key := OrderCategoryKey{OrderID: p.OrderID, Category: p.Category}
		totals[key] = totals[key].Add(amount)
	}
	return totals, warnings
}

// PaidStatusFor compares a paid-to-date total against the category's value
// on the order, both in base currency. Full payment uses an epsilon rather
// than exact equality to absorb conversion rounding drift.
func PaidStatusFor(paid, due decimal.Decimal) PaidStatus {
	if paid.LessThanOrEqual(decimal.Zero) {
		return PaidStatusUnpaid
	}
	if due.Sub(paid).LessThanOrEqual(FullyPaidEpsilon) {
		return PaidStatusFullyPaid
	}
	return PaidStatusPartial
}
