package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save inserts or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds all products matching the given IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll returns all products
func (r *GormProductRepository) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).Order("code").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id).Error
}

// CountReferencingPackingUnit returns how many products default to the unit
func (r *GormProductRepository) CountReferencingPackingUnit(ctx context.Context, packingUnitID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("default_packing_unit_id = ?", packingUnitID).
		Count(&count).Error
	return count, err
}

// GormPackingUnitRepository implements PackingUnitRepository using GORM
type GormPackingUnitRepository struct {
	db *gorm.DB
}

// NewGormPackingUnitRepository creates a new GormPackingUnitRepository
func NewGormPackingUnitRepository(db *gorm.DB) *GormPackingUnitRepository {
	return &GormPackingUnitRepository{db: db}
}

// Save inserts or updates a packing unit
func (r *GormPackingUnitRepository) Save(ctx context.Context, unit *catalog.PackingUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// FindByID finds a packing unit by its ID
func (r *GormPackingUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.PackingUnit, error) {
	var unit catalog.PackingUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindAll returns all packing units
func (r *GormPackingUnitRepository) FindAll(ctx context.Context) ([]*catalog.PackingUnit, error) {
	var units []*catalog.PackingUnit
	if err := r.db.WithContext(ctx).Order("name").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Delete removes a packing unit
func (r *GormPackingUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.PackingUnit{}, "id = ?", id).Error
}

var (
	_ catalog.ProductRepository     = (*GormProductRepository)(nil)
	_ catalog.PackingUnitRepository = (*GormPackingUnitRepository)(nil)
)
