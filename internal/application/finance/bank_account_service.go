package finance

import (
	"context"

	apptrade "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BankAccountService manages bank accounts
type BankAccountService struct {
	scope    apptrade.TransactionScope
	validate *validator.Validate
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(scope apptrade.TransactionScope) *BankAccountService {
	return &BankAccountService{
		scope:    scope,
		validate: validator.New(),
	}
}

// CreateAccount registers a bank account
func (s *BankAccountService) CreateAccount(ctx context.Context, req CreateBankAccountRequest) (*finance.BankAccount, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var account *finance.BankAccount
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		account, err = finance.NewBankAccount(req.Name, req.Currency, req.InitialBalance, req.CreationDate)
		if err != nil {
			return err
		}
		return repos.BankAccounts().Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes a bank account that no payment references
func (s *BankAccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		account, err := repos.BankAccounts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		count, err := repos.Payments().CountReferencingBankAccount(ctx, account.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewReferentialIntegrityError("bank account", account.ID, "payments")
		}
		return repos.BankAccounts().Delete(ctx, account.ID)
	})
}

// GetAccount returns a bank account by ID
func (s *BankAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	var account *finance.BankAccount
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		account, err = repos.BankAccounts().FindByID(ctx, id)
		return err
	})
	return account, err
}

// ListAccounts returns all bank accounts
func (s *BankAccountService) ListAccounts(ctx context.Context) ([]*finance.BankAccount, error) {
	var accounts []*finance.BankAccount
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		accounts, err = repos.BankAccounts().FindAll(ctx)
		return err
	})
	return accounts, err
}
