package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories an
// order save or delete touches. The apply/reverse pattern is not atomic
// across steps, so every compound sequence (edit = reverse+apply, receipt =
// stock-apply+cost-fold) runs inside one scope execution: external observers
// never see the intermediate state, and an error rolls everything back.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	PackingUnits() catalog.PackingUnitRepository
	Warehouses() partner.WarehouseRepository
	PurchaseOrders() trade.PurchaseOrderRepository
	SellOrders() trade.SellOrderRepository
	Transfers() trade.TransferRepository
	Utilizations() trade.UtilizationOrderRepository
	Payments() finance.PaymentRepository
	BankAccounts() finance.BankAccountRepository
}

// RepositorySet is a plain bundle of repositories satisfying
// TransactionalRepositories. Transaction scope implementations build one
// per transaction over transaction-bound repositories.
type RepositorySet struct {
	ProductRepo     catalog.ProductRepository
	PackingUnitRepo catalog.PackingUnitRepository
	WarehouseRepo   partner.WarehouseRepository
	PurchaseRepo    trade.PurchaseOrderRepository
	SellRepo        trade.SellOrderRepository
	TransferRepo    trade.TransferRepository
	UtilizationRepo trade.UtilizationOrderRepository
	PaymentRepo     finance.PaymentRepository
	BankAccountRepo finance.BankAccountRepository
}

// Products returns the product repository
func (r RepositorySet) Products() catalog.ProductRepository { return r.ProductRepo }

// PackingUnits returns the packing unit repository
func (r RepositorySet) PackingUnits() catalog.PackingUnitRepository { return r.PackingUnitRepo }

// Warehouses returns the warehouse repository
func (r RepositorySet) Warehouses() partner.WarehouseRepository { return r.WarehouseRepo }

// PurchaseOrders returns the purchase order repository
func (r RepositorySet) PurchaseOrders() trade.PurchaseOrderRepository { return r.PurchaseRepo }

// SellOrders returns the sell order repository
func (r RepositorySet) SellOrders() trade.SellOrderRepository { return r.SellRepo }

// Transfers returns the transfer repository
func (r RepositorySet) Transfers() trade.TransferRepository { return r.TransferRepo }

// Utilizations returns the utilization order repository
func (r RepositorySet) Utilizations() trade.UtilizationOrderRepository { return r.UtilizationRepo }

// Payments returns the payment repository
func (r RepositorySet) Payments() finance.PaymentRepository { return r.PaymentRepo }

// BankAccounts returns the bank account repository
func (r RepositorySet) BankAccounts() finance.BankAccountRepository { return r.BankAccountRepo }

// NoOpTransactionScope runs functions without a real transaction. It backs
// in-memory repository setups in tests.
type NoOpTransactionScope struct {
	repos RepositorySet
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(repos RepositorySet) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = RepositorySet{}
)
