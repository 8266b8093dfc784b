package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferencingPackingUnit returns how many products default to the unit
	CountReferencingPackingUnit(ctx context.Context, packingUnitID uuid.UUID) (int64, error)
}

// PackingUnitRepository defines persistence operations for packing units
type PackingUnitRepository interface {
	Save(ctx context.Context, unit *PackingUnit) error
	FindByID(ctx context.Context, id uuid.UUID) (*PackingUnit, error)
	FindAll(ctx context.Context) ([]*PackingUnit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
