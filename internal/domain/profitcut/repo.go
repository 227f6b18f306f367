package profitcut

import (
	"context"

	"github.com/jomora1/proyvarchar/internal/core/id"
)

// Repository defines the interface for profit-cut persistence.
// Cuts are append-only; there is no update or delete.
type Repository interface {
	Create(ctx context.Context, cut *ProfitCut) error

	GetByID(ctx context.Context, cutID id.ID) (*ProfitCut, error)

	// List retrieves all cuts, newest first.
	List(ctx context.Context) ([]*ProfitCut, error)
}
