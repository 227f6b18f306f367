package sales

import (
	"context"

	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

// Repository defines the interface for sales ledger persistence.
// Item reads return lines in insertion order; that order is the stable
// tie-break for the cheapest-unit-first allocation rule.
type Repository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	CreateItems(ctx context.Context, items []Item) error

	GetSale(ctx context.Context, saleID id.ID) (*Sale, error)
	GetItems(ctx context.Context, saleID id.ID) ([]Item, error)

	// UpdateSalePayment sets the cumulative paid amount and status.
	UpdateSalePayment(ctx context.Context, saleID id.ID, paid types.Money, status Status) error

	// UpdateItemPayment sets a line's paid/pending amounts.
	UpdateItemPayment(ctx context.Context, itemID id.ID, paid, pending types.Money) error

	// UpdateItemCut advances a line's cut bookkeeping.
	UpdateItemCut(ctx context.Context, itemID id.ID, cutUnits int, isCutIncluded bool, cutID id.ID) error

	// List retrieves all sales, newest first.
	List(ctx context.Context) ([]*Sale, error)

	// ListByClient retrieves a client's sales, oldest first.
	ListByClient(ctx context.Context, clientID id.ID) ([]*Sale, error)

	// ListAllItems retrieves every sale line in the ledger.
	// Used by the profit-cut full rescan.
	ListAllItems(ctx context.Context) ([]Item, error)

	// CountByClient reports how many sales reference the client.
	CountByClient(ctx context.Context, clientID id.ID) (int, error)
}
