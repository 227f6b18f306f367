package product

import (
	"context"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/types"
)

// Repository defines the interface for product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, code string) error

	// GetByCode retrieves a product by its code.
	GetByCode(ctx context.Context, code string) (*Product, error)

	// List retrieves all products ordered by name.
	List(ctx context.Context) ([]*Product, error)

	// AdjustStock changes the stock count by delta (positive or negative).
	AdjustStock(ctx context.Context, code string, delta int) error

	// RecordPurchase increments stock and updates last-purchase bookkeeping.
	RecordPurchase(ctx context.Context, code string, qty int, unitCost types.Money, at time.Time) error

	// IsReferenced reports whether any sale item or purchase references
	// the product.
	IsReferenced(ctx context.Context, code string) (bool, error)
}
