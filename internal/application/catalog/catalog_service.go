package catalog

import (
	"context"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a catalog product
type CreateProductRequest struct {
	Name                 string     `json:"name" validate:"required,min=1,max=200"`
	Code                 string     `json:"code" validate:"required,min=1,max=50"`
	DefaultPackingUnitID *uuid.UUID `json:"default_packing_unit_id"`
}

// UpdateProductRequest changes a product's descriptive fields. Stock and
// average cost are owned by the ledger and valuation engine and cannot be
// edited directly.
type UpdateProductRequest struct {
	Name                 string     `json:"name" validate:"required,min=1,max=200"`
	DefaultPackingUnitID *uuid.UUID `json:"default_packing_unit_id"`
}

// CreatePackingUnitRequest registers a packing unit
type CreatePackingUnitRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=100"`
	ConversionFactor decimal.Decimal `json:"conversion_factor" validate:"required"`
}

// CatalogService manages products and packing units
type CatalogService struct {
	products       catalog.ProductRepository
	packingUnits   catalog.PackingUnitRepository
	purchaseOrders trade.PurchaseOrderRepository
	sellOrders     trade.SellOrderRepository
	validate       *validator.Validate
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	products catalog.ProductRepository,
	packingUnits catalog.PackingUnitRepository,
	purchaseOrders trade.PurchaseOrderRepository,
	sellOrders trade.SellOrderRepository,
) *CatalogService {
	return &CatalogService{
		products:       products,
		packingUnits:   packingUnits,
		purchaseOrders: purchaseOrders,
		sellOrders:     sellOrders,
		validate:       validator.New(),
	}
}

// CreateProduct registers a product
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Code)
	if err != nil {
		return nil, err
	}
	if req.DefaultPackingUnitID != nil {
		if _, err := s.packingUnits.FindByID(ctx, *req.DefaultPackingUnitID); err != nil {
			return nil, err
		}
		product.DefaultPackingUnitID = req.DefaultPackingUnitID
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct changes a product's descriptive fields
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DefaultPackingUnitID != nil {
		if _, err := s.packingUnits.FindByID(ctx, *req.DefaultPackingUnitID); err != nil {
			return nil, err
		}
	}
	product.Name = req.Name
	product.DefaultPackingUnitID = req.DefaultPackingUnitID

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product that no order line references
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.purchaseOrders.CountReferencingProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferentialIntegrityError("product", product.ID, "purchase orders")
	}
	count, err = s.sellOrders.CountReferencingProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferentialIntegrityError("product", product.ID, "sell orders")
	}

	return s.products.Delete(ctx, product.ID)
}

// GetProduct returns a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListProducts returns all products
func (s *CatalogService) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	return s.products.FindAll(ctx)
}

// CreatePackingUnit registers a packing unit
func (s *CatalogService) CreatePackingUnit(ctx context.Context, req CreatePackingUnitRequest) (*catalog.PackingUnit, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	unit, err := catalog.NewPackingUnit(req.Name, req.ConversionFactor)
	if err != nil {
		return nil, err
	}
	if err := s.packingUnits.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// DeletePackingUnit removes a packing unit that no product defaults to
func (s *CatalogService) DeletePackingUnit(ctx context.Context, id uuid.UUID) error {
	unit, err := s.packingUnits.FindByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.products.CountReferencingPackingUnit(ctx, unit.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewReferentialIntegrityError("packing unit", unit.ID, "products")
	}

	return s.packingUnits.Delete(ctx, unit.ID)
}

// ListPackingUnits returns all packing units
func (s *CatalogService) ListPackingUnits(ctx context.Context) ([]*catalog.PackingUnit, error) {
	return s.packingUnits.FindAll(ctx)
}
