package persistence

import (
	"context"

	apptrade "github.com/erp/stockledger/internal/application/trade"
	"gorm.io/gorm"
)

// GormTransactionScope runs application work inside a single database
// transaction. Every repository handed to the callback shares the
// transaction, so a failed step rolls back all writes of the sequence.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute opens a transaction and invokes fn with repositories bound to it
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(apptrade.RepositorySet{
			ProductRepo:     NewGormProductRepository(tx),
			PackingUnitRepo: NewGormPackingUnitRepository(tx),
			WarehouseRepo:   NewGormWarehouseRepository(tx),
			PurchaseRepo:    NewGormPurchaseOrderRepository(tx),
			SellRepo:        NewGormSellOrderRepository(tx),
			TransferRepo:    NewGormTransferRepository(tx),
			UtilizationRepo: NewGormUtilizationOrderRepository(tx),
			PaymentRepo:     NewGormPaymentRepository(tx),
			BankAccountRepo: NewGormBankAccountRepository(tx),
		})
	})
}

var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)
