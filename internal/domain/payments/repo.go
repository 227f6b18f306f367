package payments

import (
	"context"

	"github.com/jomora1/proyvarchar/internal/core/id"
)

// Repository defines the interface for payment persistence.
// Payments are append-only; there is no update or delete.
type Repository interface {
	Create(ctx context.Context, p *Payment) error

	// ListBySale retrieves payments for one sale, newest first.
	ListBySale(ctx context.Context, saleID id.ID) ([]*Payment, error)

	// List retrieves all payments, newest first.
	List(ctx context.Context) ([]*Payment, error)
}
