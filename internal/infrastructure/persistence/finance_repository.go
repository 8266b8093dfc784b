package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save inserts or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var payment finance.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByOrderID returns payments linked to an order
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("payment_date").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByBankAccountID returns payments recorded against an account
func (r *GormPaymentRepository) FindByBankAccountID(ctx context.Context, accountID uuid.UUID) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	if err := r.db.WithContext(ctx).Where("bank_account_id = ?", accountID).Order("payment_date").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAll returns all payments
func (r *GormPaymentRepository) FindAll(ctx context.Context) ([]*finance.Payment, error) {
	var payments []*finance.Payment
	if err := r.db.WithContext(ctx).Order("payment_date desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Delete removes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&finance.Payment{}, "id = ?", id).Error
}

// CountReferencingBankAccount returns how many payments use the account
func (r *GormPaymentRepository) CountReferencingBankAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&finance.Payment{}).
		Where("bank_account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

// GormBankAccountRepository implements BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// Save inserts or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, account *finance.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// FindByID finds a bank account by ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	var account finance.BankAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns all bank accounts
func (r *GormBankAccountRepository) FindAll(ctx context.Context) ([]*finance.BankAccount, error) {
	var accounts []*finance.BankAccount
	if err := r.db.WithContext(ctx).Order("name").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Delete removes a bank account
func (r *GormBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&finance.BankAccount{}, "id = ?", id).Error
}

var (
	_ finance.PaymentRepository     = (*GormPaymentRepository)(nil)
	_ finance.BankAccountRepository = (*GormBankAccountRepository)(nil)
)
