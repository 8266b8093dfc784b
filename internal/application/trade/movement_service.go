package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TransferService handles standalone inter-warehouse transfers
type TransferService struct {
	scope    TransactionScope
	ledger   *inventory.StockLedger
	validate *validator.Validate
	metrics  MetricsRecorder
}

// NewTransferService creates a new TransferService
func NewTransferService(scope TransactionScope) *TransferService {
	return &TransferService{
		scope:    scope,
		ledger:   inventory.NewStockLedger(),
		validate: validator.New(),
	}
}

// SetMetricsRecorder sets the recorder for operational counters
func (s *TransferService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// Create registers a transfer and moves its quantities between warehouses.
// The source warehouse must cover every line in full.
func (s *TransferService) Create(ctx context.Context, req CreateTransferRequest) (*trade.Transfer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var transfer *trade.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		transfer, err = trade.NewTransfer(req.SourceWarehouseID, req.DestWarehouseID, req.TransferDate)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := transfer.AddItem(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := transfer.Validate(); err != nil {
			return err
		}

		if err := s.ledger.Apply(products, transferMovement(transfer)); err != nil {
			return err
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.Transfers().Save(ctx, transfer)
	})
	recordOutcome(ctx, s.metrics, nil, err)
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Delete reverses the transfer's stock effect and removes it. A transfer
// generated by a sell order shipment can only be deleted through the order.
func (s *TransferService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		transfer, err := repos.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if transfer.SellOrderID != nil {
			return shared.NewReferentialIntegrityError("transfer", transfer.ID, "sell order")
		}

		ids := make([]uuid.UUID, 0, len(transfer.Items))
		for _, item := range transfer.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		if err := s.ledger.Reverse(products, transferMovement(transfer)); err != nil {
			return err
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.Transfers().Delete(ctx, transfer.ID)
	})
}

// Get returns a transfer by ID
func (s *TransferService) Get(ctx context.Context, id uuid.UUID) (*trade.Transfer, error) {
	var transfer *trade.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.Transfers().FindByID(ctx, id)
		return err
	})
	return transfer, err
}

// List returns all transfers
func (s *TransferService) List(ctx context.Context) ([]*trade.Transfer, error) {
	var transfers []*trade.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfers, err = repos.Transfers().FindAll(ctx)
		return err
	})
	return transfers, err
}

// UtilizationService handles stock write-offs
type UtilizationService struct {
	scope    TransactionScope
	ledger   *inventory.StockLedger
	validate *validator.Validate
}

// NewUtilizationService creates a new UtilizationService
func NewUtilizationService(scope TransactionScope) *UtilizationService {
	return &UtilizationService{
		scope:    scope,
		ledger:   inventory.NewStockLedger(),
		validate: validator.New(),
	}
}

// Create registers a write-off and deducts its quantities. A line asking
// for more than the warehouse holds deducts what is there.
func (s *UtilizationService) Create(ctx context.Context, req CreateUtilizationRequest) (*trade.UtilizationOrder, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var order *trade.UtilizationOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		order, err = trade.NewUtilizationOrder(req.WarehouseID, req.UtilizationDate)
		if err != nil {
			return err
		}
		order.Reason = req.Reason
		for _, item := range req.Items {
			if err := order.AddItem(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := order.Validate(); err != nil {
			return err
		}

		if err := s.ledger.Apply(products, utilizationMovement(order)); err != nil {
			return err
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.Utilizations().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete reverses the write-off and removes it. The reversal restores the
// full recorded quantity even when the original deduction was clamped.
func (s *UtilizationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Utilizations().FindByID(ctx, id)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(order.Items))
		for _, item := range order.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		if err := s.ledger.Reverse(products, utilizationMovement(order)); err != nil {
			return err
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.Utilizations().Delete(ctx, order.ID)
	})
}

// Get returns a write-off by ID
func (s *UtilizationService) Get(ctx context.Context, id uuid.UUID) (*trade.UtilizationOrder, error) {
	var order *trade.UtilizationOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Utilizations().FindByID(ctx, id)
		return err
	})
	return order, err
}

// List returns all write-offs
func (s *UtilizationService) List(ctx context.Context) ([]*trade.UtilizationOrder, error) {
	var orders []*trade.UtilizationOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		orders, err = repos.Utilizations().FindAll(ctx)
		return err
	})
	return orders, err
}
