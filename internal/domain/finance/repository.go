package finance

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*Payment, error)
	FindByBankAccountID(ctx context.Context, accountID uuid.UUID) ([]*Payment, error)
	FindAll(ctx context.Context) ([]*Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferencingBankAccount returns how many payments use the account
	CountReferencingBankAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// BankAccountRepository defines persistence operations for bank accounts
type BankAccountRepository interface {
	Save(ctx context.Context, account *BankAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	FindAll(ctx context.Context) ([]*BankAccount, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
