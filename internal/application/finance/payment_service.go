package finance

import (
	"context"
	"errors"

	apptrade "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/costing"
	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService records payments and answers the ledger queries built on
// them: account statements with running balances, and per-order paid
// status by category.
type PaymentService struct {
	scope    apptrade.TransactionScope
	ledger   *finance.PaymentLedger
	engine   *costing.Engine
	validate *validator.Validate
	metrics  apptrade.MetricsRecorder
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope apptrade.TransactionScope, ledger *finance.PaymentLedger, engine *costing.Engine) *PaymentService {
	return &PaymentService{
		scope:    scope,
		ledger:   ledger,
		engine:   engine,
		validate: validator.New(),
	}
}

// SetMetricsRecorder sets the recorder for operational counters
func (s *PaymentService) SetMetricsRecorder(metrics apptrade.MetricsRecorder) {
	s.metrics = metrics
}

func (s *PaymentService) recordWarnings(ctx context.Context, warnings []*currency.RateMissingWarning) {
	if s.metrics == nil {
		return
	}
	for _, warning := range warnings {
		s.metrics.RecordMissingRateWarning(ctx, warning.Currency)
	}
}

// CreatePayment records a payment. A linked payment must reference an
// existing purchase or sell order, and a bank account reference must
// resolve.
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*finance.Payment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var payment *finance.Payment
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		orderID := uuid.Nil
		if req.OrderID != nil {
			if err := s.checkOrderExists(ctx, repos, *req.OrderID); err != nil {
				return err
			}
			orderID = *req.OrderID
		}

		var err error
		payment, err = finance.NewPayment(orderID, req.Category, req.Direction, req.PaymentDate, req.Amount, req.Currency)
		if err != nil {
			return err
		}
		if req.ExchangeRate != nil {
			if err := payment.SetExchangeRate(*req.ExchangeRate); err != nil {
				return err
			}
		}
		if req.BankAccountID != nil {
			if _, err := repos.BankAccounts().FindByID(ctx, *req.BankAccountID); err != nil {
				return err
			}
			payment.SetBankAccount(*req.BankAccountID)
		}
		payment.Note = req.Note

		return repos.Payments().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordPayment(ctx)
	}
	return payment, nil
}

// DeletePayment removes a payment. A payment generated by a sell order
// shipment can only be removed through the order.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		payment, err := repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if payment.IsLinked() {
			order, err := repos.SellOrders().FindByID(ctx, payment.OrderID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			if order != nil && order.GeneratedPaymentID != nil && *order.GeneratedPaymentID == payment.ID {
				return shared.NewReferentialIntegrityError("payment", payment.ID, "sell order")
			}
		}

		return repos.Payments().Delete(ctx, payment.ID)
	})
}

// GetPayment returns a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var payment *finance.Payment
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		payment, err = repos.Payments().FindByID(ctx, id)
		return err
	})
	return payment, err
}

// ListPayments returns all payments
func (s *PaymentService) ListPayments(ctx context.Context) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		payments, err = repos.Payments().FindAll(ctx)
		return err
	})
	return payments, err
}

// PaymentsForOrder returns the payments linked to an order
func (s *PaymentService) PaymentsForOrder(ctx context.Context, orderID uuid.UUID) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		payments, err = repos.Payments().FindByOrderID(ctx, orderID)
		return err
	})
	return payments, err
}

// AccountStatement returns the account's chronological balance history,
// starting from the synthetic opening entry
func (s *PaymentService) AccountStatement(ctx context.Context, accountID uuid.UUID) ([]finance.BalanceEntry, []*currency.RateMissingWarning, error) {
	var entries []finance.BalanceEntry
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		account, err := repos.BankAccounts().FindByID(ctx, accountID)
		if err != nil {
			return err
		}
		payments, err := repos.Payments().FindByBankAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		entries, warnings = s.ledger.ComputeRunningBalance(account, payments)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.recordWarnings(ctx, warnings)
	return entries, warnings, nil
}

// AccountBalance returns the account's current balance
func (s *PaymentService) AccountBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, []*currency.RateMissingWarning, error) {
	var balance decimal.Decimal
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		account, err := repos.BankAccounts().FindByID(ctx, accountID)
		if err != nil {
			return err
		}
		payments, err := repos.Payments().FindByBankAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		balance, warnings = s.ledger.FinalBalance(account, payments)
		return nil
	})
	if err != nil {
		return decimal.Zero, nil, err
	}
	s.recordWarnings(ctx, warnings)
	return balance, warnings, nil
}

// OrderPaymentStatus reports, per payment category, how much the order
// owes and how much has been paid against it. Amounts due come from the
// order's valuation; categories with nothing due and nothing paid are
// omitted.
func (s *PaymentService) OrderPaymentStatus(ctx context.Context, orderID uuid.UUID) ([]CategoryPaymentStatus, []*currency.RateMissingWarning, error) {
	var statuses []CategoryPaymentStatus
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		due, err := s.amountsDue(ctx, repos, orderID)
		if err != nil {
			return err
		}

		payments, err := repos.Payments().FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		paid, warns := s.ledger.PaidToDate(payments)
		warnings = warns

		for _, category := range []finance.PaymentCategory{
			finance.PaymentCategoryProducts,
			finance.PaymentCategoryFees,
			finance.PaymentCategoryTransport,
		} {
			key := finance.OrderCategoryKey{OrderID: orderID, Category: category}
			dueAmount := due[category]
			paidAmount := paid[key]
			if dueAmount.IsZero() && paidAmount.IsZero() {
				continue
			}
			statuses = append(statuses, CategoryPaymentStatus{
				Category: category,
				Due:      dueAmount,
				Paid:     paidAmount,
				Status:   finance.PaidStatusFor(paidAmount, dueAmount),
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.recordWarnings(ctx, warnings)
	return statuses, warnings, nil
}

// amountsDue derives the per-category amounts owed on an order from its
// valuation. Purchase orders owe the product subtotal and the order fees;
// sell orders are owed their VAT-inclusive total.
func (s *PaymentService) amountsDue(ctx context.Context, repos apptrade.TransactionalRepositories, orderID uuid.UUID) (map[finance.PaymentCategory]decimal.Decimal, error) {
	due := make(map[finance.PaymentCategory]decimal.Decimal)

	purchase, err := repos.PurchaseOrders().FindByID(ctx, orderID)
	if err == nil {
		valuation := s.engine.ComputeLandedCosts(purchase)
		due[finance.PaymentCategoryProducts] = valuation.ProductsSubtotalBase.Round(valueobject.TotalPrecision)
		due[finance.PaymentCategoryFees] = valuation.TotalFeesBase.Round(valueobject.TotalPrecision)
		return due, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	sell, err := repos.SellOrders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	due[finance.PaymentCategoryProducts] = sell.Total
	return due, nil
}

// checkOrderExists resolves an order reference against both order kinds
func (s *PaymentService) checkOrderExists(ctx context.Context, repos apptrade.TransactionalRepositories, orderID uuid.UUID) error {
	_, err := repos.PurchaseOrders().FindByID(ctx, orderID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	_, err = repos.SellOrders().FindByID(ctx, orderID)
	return err
}
