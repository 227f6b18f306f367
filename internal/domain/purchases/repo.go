package purchases

import (
	"context"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/id"
)

// Repository defines the interface for purchase persistence.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	SaveLines(ctx context.Context, lines []Line) error

	GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error)
	GetLines(ctx context.Context, purchaseID id.ID) ([]Line, error)

	// List retrieves all purchases, newest first.
	List(ctx context.Context) ([]*Purchase, error)

	// ListByDateRange retrieves purchases within [from, to], newest first.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Purchase, error)
}
