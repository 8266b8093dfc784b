package partner

import (
	"context"

	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateWarehouseRequest registers a warehouse
type CreateWarehouseRequest struct {
	Name string                `json:"name" validate:"required,min=1,max=200"`
	Type partner.WarehouseType `json:"type" validate:"required"`
}

// CreateCounterpartyRequest registers a supplier or customer
type CreateCounterpartyRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"max=50"`
}

// WarehouseService manages warehouses. Exactly one Main warehouse exists
// at any time; generated shipment transfers originate from it.
type WarehouseService struct {
	warehouses     partner.WarehouseRepository
	purchaseOrders trade.PurchaseOrderRepository
	sellOrders     trade.SellOrderRepository
	transfers      trade.TransferRepository
	validate       *validator.Validate
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouses partner.WarehouseRepository,
	purchaseOrders trade.PurchaseOrderRepository,
	sellOrders trade.SellOrderRepository,
	transfers trade.TransferRepository,
) *WarehouseService {
	return &WarehouseService{
		warehouses:     warehouses,
		purchaseOrders: purchaseOrders,
		sellOrders:     sellOrders,
		transfers:      transfers,
		validate:       validator.New(),
	}
}

// CreateWarehouse registers a warehouse. A second Main warehouse is rejected.
func (s *WarehouseService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*partner.Warehouse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	warehouse, err := partner.NewWarehouse(req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	if warehouse.IsMain() {
		count, err := s.warehouses.CountByType(ctx, partner.WarehouseTypeMain, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, shared.NewValidationError("type", "a Main warehouse already exists")
		}
	}

	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// UpdateWarehouse changes a warehouse's name and type. Demoting the only
// Main warehouse, or promoting a second one, is rejected.
func (s *WarehouseService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req CreateWarehouseRequest) (*partner.Warehouse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, shared.NewValidationError("type", "invalid warehouse type")
	}

	warehouse, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type == partner.WarehouseTypeMain && !warehouse.IsMain() {
		count, err := s.warehouses.CountByType(ctx, partner.WarehouseTypeMain, warehouse.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, shared.NewValidationError("type", "a Main warehouse already exists")
		}
	}
	if warehouse.IsMain() && req.Type != partner.WarehouseTypeMain {
		return nil, shared.NewValidationError("type", "the Main warehouse cannot be demoted")
	}

	warehouse.Name = req.Name
	warehouse.Type = req.Type
	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// DeleteWarehouse removes a warehouse that no order or transfer references.
// The Main warehouse cannot be deleted.
func (s *WarehouseService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse.IsMain() {
		return shared.NewValidationError("type", "the Main warehouse cannot be deleted")
	}

	count, err := s.purchaseOrders.CountReferencingWarehouse(ctx, warehouse.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferentialIntegrityError("warehouse", warehouse.ID, "purchase orders")
	}
	count, err = s.sellOrders.CountReferencingWarehouse(ctx, warehouse.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferentialIntegrityError("warehouse", warehouse.ID, "sell orders")
	}
	count, err = s.transfers.CountReferencingWarehouse(ctx, warehouse.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferentialIntegrityError("warehouse", warehouse.ID, "transfers")
	}

	return s.warehouses.Delete(ctx, warehouse.ID)
}

// GetWarehouse returns a warehouse by ID
func (s *WarehouseService) GetWarehouse(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	return s.warehouses.FindByID(ctx, id)
}

// ListWarehouses returns all warehouses
func (s *WarehouseService) ListWarehouses(ctx context.Context) ([]*partner.Warehouse, error) {
	return s.warehouses.FindAll(ctx)
}

// CounterpartyService manages suppliers and customers
type CounterpartyService struct {
	suppliers partner.SupplierRepository
	customers partner.CustomerRepository
	validate  *validator.Validate
}

// NewCounterpartyService creates a new CounterpartyService
func NewCounterpartyService(suppliers partner.SupplierRepository, customers partner.CustomerRepository) *CounterpartyService {
	return &CounterpartyService{
		suppliers: suppliers,
		customers: customers,
		validate:  validator.New(),
	}
}

// CreateSupplier registers a supplier
func (s *CounterpartyService) CreateSupplier(ctx context.Context, req CreateCounterpartyRequest) (*partner.Supplier, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	supplier, err := partner.NewSupplier(req.Name)
	if err != nil {
		return nil, err
	}
	supplier.Phone = req.Phone
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// CreateCustomer registers a customer
func (s *CounterpartyService) CreateCustomer(ctx context.Context, req CreateCounterpartyRequest) (*partner.Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(req.Name)
	if err != nil {
		return nil, err
	}
	customer.Phone = req.Phone
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListSuppliers returns all suppliers
func (s *CounterpartyService) ListSuppliers(ctx context.Context) ([]*partner.Supplier, error) {
	return s.suppliers.FindAll(ctx)
}

// ListCustomers returns all customers
func (s *CounterpartyService) ListCustomers(ctx context.Context) ([]*partner.Customer, error) {
	return s.customers.FindAll(ctx)
}
