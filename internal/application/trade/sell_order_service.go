package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/costing"
	"github.com/erp/stockledger/internal/domain/currency"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SellOrderService handles the sell order lifecycle. A sell order's stock
// effect is applied on every save, but the shortfall precondition is only
// enforced once the order ships.
type SellOrderService struct {
	scope          TransactionScope
	ledger         *inventory.StockLedger
	engine         *costing.Engine
	validate       *validator.Validate
	eventPublisher shared.EventPublisher
	metrics        MetricsRecorder
}

// NewSellOrderService creates a new SellOrderService
func NewSellOrderService(scope TransactionScope, engine *costing.Engine) *SellOrderService {
	return &SellOrderService{
		scope:    scope,
		ledger:   inventory.NewStockLedger(),
		engine:   engine,
		validate: validator.New(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SellOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetricsRecorder sets the recorder for operational counters
func (s *SellOrderService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// Create registers a sell order and applies its shipment to stock
func (s *SellOrderService) Create(ctx context.Context, req CreateSellOrderRequest) (*trade.SellOrder, []*currency.RateMissingWarning, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}

	var order *trade.SellOrder
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.SellOrders().FindByOrderNumber(ctx, req.OrderNumber)
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

		order, err = s.assemble(ctx, repos, products, req.OrderNumber, nil, updateSellRequest(req))
		if err != nil {
			return err
		}
		if err := order.Validate(); err != nil {
			return err
		}
		if err := order.ChangeStatus(req.Status); err != nil {
			return err
		}

		if err := s.ledger.Apply(products, sellMovement(order)); err != nil {
			return err
		}

		total, warns := s.engine.ComputeSellOrderTotal(order)
		warnings = warns
		order.SetTotal(total)

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.SellOrders().Save(ctx, order)
	})
	recordOutcome(ctx, s.metrics, warnings, err)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvents(ctx, order)
	return order, warnings, nil
}

// Update replaces the order's editable state, reversing the previous stock
// effect before applying the new one
func (s *SellOrderService) Update(ctx context.Context, id uuid.UUID, req UpdateSellOrderRequest) (*trade.SellOrder, []*currency.RateMissingWarning, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}

	var order *trade.SellOrder
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.SellOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		ids := append(orderProductIDs(existing.Items), productIDs(req.Items)...)
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		if err := s.ledger.Reverse(products, sellMovement(existing)); err != nil {
			return err
		}

		order, err = s.assemble(ctx, repos, products, existing.OrderNumber, &existing.ID, req)
		if err != nil {
			return err
		}
		order.CreatedAt = existing.CreatedAt
		order.Status = existing.Status
		order.GeneratedTransferID = existing.GeneratedTransferID
		order.GeneratedPaymentID = existing.GeneratedPaymentID
		if err := order.Validate(); err != nil {
			return err
		}
		if err := order.ChangeStatus(req.Status); err != nil {
			return err
		}

		if err := s.ledger.Apply(products, sellMovement(order)); err != nil {
			return err
		}

		total, warns := s.engine.ComputeSellOrderTotal(order)
		warnings = warns
		order.SetTotal(total)

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.SellOrders().Save(ctx, order)
	})
	recordOutcome(ctx, s.metrics, warnings, err)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvents(ctx, order)
	return order, warnings, nil
}

// Ship moves the order into Shipped, re-applying its stock effect with the
// shortfall check enforced. On request it also generates a transfer routing
// stock from the Main warehouse into the selling warehouse ahead of the
// shipment, and an incoming payment for the order total, both linked back
// to the order. The final total surfaces the same missing-rate warnings
// Create and Update do.
func (s *SellOrderService) Ship(ctx context.Context, id uuid.UUID, req ShipSellOrderRequest) (*trade.SellOrder, []*currency.RateMissingWarning, error) {
	var order *trade.SellOrder
	var warnings []*currency.RateMissingWarning

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SellOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status.IsShipped() {
			return shared.ErrInvalidState
		}

		products, err := loadProducts(ctx, repos.Products(), orderProductIDs(order.Items))
		if err != nil {
			return err
		}

		// Undo the unchecked draft-stage effect so the checked one below
		// sees the true stock level.
		if err := s.ledger.Reverse(products, sellMovement(order)); err != nil {
			return err
		}

		if req.GenerateTransfer {
			if err := s.generateTransfer(ctx, repos, products, order); err != nil {
				return err
			}
		}

		if err := order.ChangeStatus(trade.SellOrderStatusShipped); err != nil {
			return err
		}
		if err := s.ledger.Apply(products, sellMovement(order)); err != nil {
			return err
		}

		total, warns := s.engine.ComputeSellOrderTotal(order)
		warnings = warns
		order.SetTotal(total)

		if req.GeneratePayment {
			if err := s.generatePayment(ctx, repos, order, req.BankAccountID); err != nil {
				return err
			}
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.SellOrders().Save(ctx, order)
	})
	recordOutcome(ctx, s.metrics, warnings, err)
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil && req.GeneratePayment && order.GeneratedPaymentID != nil {
		s.metrics.RecordPayment(ctx)
	}
	s.publishEvents(ctx, order)
	return order, warnings, nil
}

// Delete removes the order after reversing its stock effect. Generated
// documents block deletion unless cascade is set, in which case they are
// reversed and deleted with the order. Payments recorded against the order
// by hand always block.
func (s *SellOrderService) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.SellOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		payments, err := repos.Payments().FindByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if order.GeneratedPaymentID != nil && payment.ID == *order.GeneratedPaymentID {
				continue
			}
			return shared.NewReferentialIntegrityError("sell order", order.ID, "payments")
		}
		if order.HasDependents() && !cascade {
			return shared.NewReferentialIntegrityError("sell order", order.ID, "generated documents")
		}

		ids := orderProductIDs(order.Items)
		var transfer *trade.Transfer
		if order.GeneratedTransferID != nil {
			transfer, err = repos.Transfers().FindByID(ctx, *order.GeneratedTransferID)
			if err != nil {
				return err
			}
			for _, item := range transfer.Items {
				ids = append(ids, item.ProductID)
			}
		}
		products, err := loadProducts(ctx, repos.Products(), ids)
		if err != nil {
			return err
		}

		if err := s.ledger.Reverse(products, sellMovement(order)); err != nil {
			return err
		}
		if transfer != nil {
			if err := s.ledger.Reverse(products, transferMovement(transfer)); err != nil {
				return err
			}
			if err := repos.Transfers().Delete(ctx, transfer.ID); err != nil {
				return err
			}
		}
		if order.GeneratedPaymentID != nil {
			if err := repos.Payments().Delete(ctx, *order.GeneratedPaymentID); err != nil {
				return err
			}
		}

		if err := saveProducts(ctx, repos.Products(), products); err != nil {
			return err
		}
		return repos.SellOrders().Delete(ctx, order.ID)
	})
}

// Get returns a sell order by ID
func (s *SellOrderService) Get(ctx context.Context, id uuid.UUID) (*trade.SellOrder, error) {
	var order *trade.SellOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SellOrders().FindByID(ctx, id)
		return err
	})
	return order, err
}

// List returns all sell orders
func (s *SellOrderService) List(ctx context.Context) ([]*trade.SellOrder, error) {
	var orders []*trade.SellOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		orders, err = repos.SellOrders().FindAll(ctx)
		return err
	})
	return orders, err
}

// generateTransfer routes the shipped quantities from the Main warehouse
// into the selling warehouse, with the transfer's shortfall check guarding
// the Main warehouse stock
func (s *SellOrderService) generateTransfer(ctx context.Context, repos TransactionalRepositories, products inventory.ProductSet, order *trade.SellOrder) error {
	main, err := repos.Warehouses().FindMain(ctx)
	if err != nil {
		return err
	}
	if main.ID == order.WarehouseID {
		return nil
	}

	transfer, err := trade.NewTransfer(main.ID, order.WarehouseID, order.OrderDate)
	if err != nil {
		return err
	}
	for _, item := range order.Items {
		if err := transfer.AddItem(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	transfer.SellOrderID = &order.ID
	if err := transfer.Validate(); err != nil {
		return err
	}

	if err := s.ledger.Apply(products, transferMovement(transfer)); err != nil {
		return err
	}
	if err := repos.Transfers().Save(ctx, transfer); err != nil {
		return err
	}
	order.LinkGeneratedTransfer(transfer.ID)
	return nil
}

// generatePayment records the order total as an incoming payment in the
// base currency
func (s *SellOrderService) generatePayment(ctx context.Context, repos TransactionalRepositories, order *trade.SellOrder, bankAccountID *uuid.UUID) error {
	payment, err := finance.NewPayment(order.ID, finance.PaymentCategoryProducts, finance.PaymentDirectionIncoming, order.OrderDate, order.Total, valueobject.BaseCurrency)
	if err != nil {
		return err
	}
	if bankAccountID != nil {
		if _, err := repos.BankAccounts().FindByID(ctx, *bankAccountID); err != nil {
			return err
		}
		payment.SetBankAccount(*bankAccountID)
	}
	if err := repos.Payments().Save(ctx, payment); err != nil {
		return err
	}
	order.LinkGeneratedPayment(payment.ID)
	return nil
}

// assemble builds the sell order aggregate from request fields
func (s *SellOrderService) assemble(ctx context.Context, repos TransactionalRepositories, products inventory.ProductSet, orderNumber string, existingID *uuid.UUID, req UpdateSellOrderRequest) (*trade.SellOrder, error) {
	order, err := trade.NewSellOrder(orderNumber, req.CustomerID, req.WarehouseID, req.OrderDate, req.Currency)
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
	if err := order.SetVATPercent(req.VATPercent); err != nil {
		return nil, err
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

// updateSellRequest reuses the update shape for creation
func updateSellRequest(req CreateSellOrderRequest) UpdateSellOrderRequest {
	return UpdateSellOrderRequest{
		CustomerID:   req.CustomerID,
		WarehouseID:  req.WarehouseID,
		OrderDate:    req.OrderDate,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		VATPercent:   req.VATPercent,
		Status:       req.Status,
		Items:        req.Items,
	}
}

func (s *SellOrderService) publishEvents(ctx context.Context, order *trade.SellOrder) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
