package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/costing"
	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PurchaseOrderService handles the purchase order lifecycle. Every write
// runs as one compound sequence inside a transaction scope so stock,
// valuation and order state stay consistent.
type PurchaseOrderService struct {
	scope          TransactionScope
	ledger         *inventory.StockLedger
	engine         *costing.Engine
	validate       *validator.Validate
	eventPublisher shared.EventPublisher
	metrics        MetricsRecorder
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(scope TransactionScope, engine *costing.Engine) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:    scope,
		ledger:   inventory.NewStockLedger(),
		engine:   engine,
		validate: validator.New(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetricsRecorder sets the recorder for operational counters
func (s *PurchaseOrderService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// Create registers a purchase order, applies its receipt to stock and
// values every line. When the order arrives already in Received status the
// landed costs are folded into the products' moving averages as well.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*trade.PurchaseOrder, []*currency.RateMissingWarning, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}

	var order *trade.PurchaseOrder
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.PurchaseOrders().FindByOrderNumber(ctx, req.OrderNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}

		products, err := loadProducts(ctx, repos.Products(), productIDs(req.Items))
		if err != nil {
			return err
		}

		order, err = s.assemble(ctx, repos, products, req.OrderNumber, nil, updateRequest(req))
		if err != nil {
			return err
		}
		if err := order.Validate(); err != nil {
			return err
		}

		if err := s.ledger.Apply(products, purchaseMovement(order)); err != nil {
			return err
		}

		valuation := s.engine.ComputeLandedCosts(order)
		warnings = valuation.Warnings
		applyValuation(order, valuation)
		order.SetTotal(valuation.TotalBase)

		if err := order.ChangeStatus(req.Status); err != nil {
			return err
		}
		if order.Status.IsReceived() {
			foldReceipt(s.engine, products, valuation)
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.PurchaseOrders().Save(ctx, order)
	})
	recordOutcome(ctx, s.metrics, warnings, err)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvents(ctx, order)
	return order, warnings, nil
}

// Update replaces the order's editable state. The old stock and valuation
// effects are reversed first, then the new state is applied and revalued,
// so an edit behaves exactly like delete-and-recreate without losing the
// order's identity.
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*trade.PurchaseOrder, []*currency.RateMissingWarning, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}

	var order *trade.PurchaseOrder
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.PurchaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		ids := append(orderProductIDs(existing.Items), productIDs(req.Items)...)
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		if existing.Status.IsReceived() {
			unfoldReceipt(s.engine, products, existing)
		}
		if err := s.ledger.Reverse(products, purchaseMovement(existing)); err != nil {
			return err
		}

		order, err = s.assemble(ctx, repos, products, existing.OrderNumber, &existing.ID, req)
		if err != nil {
			return err
		}
		order.CreatedAt = existing.CreatedAt
		order.Status = existing.Status
		if err := order.Validate(); err != nil {
			return err
		}

		if err := s.ledger.Apply(products, purchaseMovement(order)); err != nil {
			return err
		}

		valuation := s.engine.ComputeLandedCosts(order)
		warnings = valuation.Warnings
		applyValuation(order, valuation)
		order.SetTotal(valuation.TotalBase)

		if err := order.ChangeStatus(req.Status); err != nil {
			return err
		}
		if order.Status.IsReceived() {
			foldReceipt(s.engine, products, valuation)
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.PurchaseOrders().Save(ctx, order)
	})
	recordOutcome(ctx, s.metrics, warnings, err)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvents(ctx, order)
	return order, warnings, nil
}

// ChangeStatus moves the order along Draft -> Ordered -> Received (either
// direction). Entering Received folds the valuation into the moving
// averages; leaving Received unfolds it, and revaluation on entry surfaces
// the same missing-rate warnings Create and Update do.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, id uuid.UUID, target trade.PurchaseOrderStatus) (*trade.PurchaseOrder, []*currency.RateMissingWarning, error) {
	var order *trade.PurchaseOrder
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == target {
			return nil
		}

		products, err := loadProducts(ctx, repos.Products(), orderProductIDs(order.Items))
		if err != nil {
			return err
		}

		wasReceived := order.Status.IsReceived()
		if err := order.ChangeStatus(target); err != nil {
			return err
		}

		if !wasReceived && order.Status.IsReceived() {
			valuation := s.engine.ComputeLandedCosts(order)
			warnings = valuation.Warnings
			applyValuation(order, valuation)
			order.SetTotal(valuation.TotalBase)
			foldReceipt(s.engine, products, valuation)
		} else if wasReceived && !order.Status.IsReceived() {
			unfoldReceipt(s.engine, products, order)
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.PurchaseOrders().Save(ctx, order)
	})
	recordOutcome(ctx, s.metrics, warnings, err)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvents(ctx, order)
	return order, warnings, nil
}

// Delete removes the order after reversing its stock and valuation
// effects. An order with linked payments cannot be deleted.
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		payments, err := repos.Payments().FindByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(payments) > 0 {
			return shared.NewReferentialIntegrityError("purchase order", order.ID, "payments")
		}

		products, err := loadProducts(ctx, repos.Products(), orderProductIDs(order.Items))
		if err != nil {
			return err
		}

		if order.Status.IsReceived() {
			unfoldReceipt(s.engine, products, order)
		}
		if err := s.ledger.Reverse(products, purchaseMovement(order)); err != nil {
			return err
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.PurchaseOrders().Delete(ctx, order.ID)
	})
}

// Get returns a purchase order by ID
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByID(ctx, id)
		return err
	})
	return order, err
}

// List returns all purchase orders
func (s *PurchaseOrderService) List(ctx context.Context) ([]*trade.PurchaseOrder, error) {
	var orders []*trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		orders, err = repos.PurchaseOrders().FindAll(ctx)
		return err
	})
	return orders, err
}

// assemble builds the purchase order aggregate from request fields. When
// existingID is set the aggregate keeps that identity so line items and
// payments stay linked across edits.
func (s *PurchaseOrderService) assemble(ctx context.Context, repos TransactionalRepositories, products inventory.ProductSet, orderNumber string, existingID *uuid.UUID, req UpdatePurchaseOrderRequest) (*trade.PurchaseOrder, error) {
	order, err := trade.NewPurchaseOrder(orderNumber, req.SupplierID, req.WarehouseID, req.OrderDate, req.Currency)
	if err != nil {
		return nil, err
	}
	if existingID != nil {
		order.ID = *existingID
	}

	if req.ExchangeRate != nil {
		if err := order.SetExchangeRate(*req.ExchangeRate); err != nil {
			return nil, err
		}
	}
	if !req.Fees.IsZero() {
		if err := order.SetFees(req.Fees, req.FeesCurrency, req.FeesExchangeRate); err != nil {
			return nil, err
		}
	}

	for _, input := range req.Items {
		qty, err := resolveQuantity(ctx, repos.PackingUnits(), input)
		if err != nil {
			return nil, err
		}
		product := products[input.ProductID]
		if _, err := order.AddItem(product.ID, product.Name, qty, input.Price); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// updateRequest reuses the update shape for creation
func updateRequest(req CreatePurchaseOrderRequest) UpdatePurchaseOrderRequest {
	return UpdatePurchaseOrderRequest{
		SupplierID:       req.SupplierID,
		WarehouseID:      req.WarehouseID,
		OrderDate:        req.OrderDate,
		Currency:         req.Currency,
		ExchangeRate:     req.ExchangeRate,
		Fees:             req.Fees,
		FeesCurrency:     req.FeesCurrency,
		FeesExchangeRate: req.FeesExchangeRate,
		Status:           req.Status,
		Items:            req.Items,
	}
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *trade.PurchaseOrder) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
