package profitcut

import (
	"context"
	"fmt"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/tx"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/product"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// ItemLedger is the sales surface the engine scans and marks.
type ItemLedger interface {
	ListAllItems(ctx context.Context) ([]sales.Item, error)
	UpdateItemCut(ctx context.Context, itemID id.ID, cutUnits int, isCutIncluded bool, cutID id.ID) error
}

// ProductCatalog supplies cost prices.
type ProductCatalog interface {
	List(ctx context.Context) ([]*product.Product, error)
}

// Engine settles revenue and cost for fully-paid units.
type Engine struct {
	repo      Repository
	ledger    ItemLedger
	catalog   ProductCatalog
	txManager tx.Manager
	cfg       Config
}

// NewEngine creates a new profit-cut engine.
func NewEngine(repo Repository, ledger ItemLedger, catalog ProductCatalog, txManager tx.Manager, cfg Config) *Engine {
	return &Engine{
		repo:      repo,
		ledger:    ledger,
		catalog:   catalog,
		txManager: txManager,
		cfg:       cfg,
	}
}

// stagedUpdate is one line-item cut advance waiting for the commit.
type stagedUpdate struct {
	itemID        id.ID
	cutUnits      int
	isCutIncluded bool
}

// CreateCut scans every sale line item and settles the units whose price has
// been fully covered by cumulative payments but not yet recognized.
//
// Recognition is per unit, not per sale: a partial payment can fully cover
// some units of an item (cheapest-first allocation) long before the whole
// sale is paid. paidUnits = floor(paid / unitPrice); the units newly
// eligible are those beyond the item's cutUnits watermark, capped by its
// quantity. Because the watermark only advances, rescanning the whole
// ledger every time is idempotent and self-correcting.
func (e *Engine) CreateCut(ctx context.Context, userID string) (*CutResult, error) {
	products, err := e.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	costByCode := make(map[string]types.Money, len(products))
	for _, p := range products {
		costByCode[p.Code] = p.CostPrice
	}

	items, err := e.ledger.ListAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	totalRevenue := types.Zero()
	totalCost := types.Zero()
	itemsCount := 0
	staged := make([]stagedUpdate, 0)
	includedIDs := make([]id.ID, 0)

	for _, item := range items {
		if item.IsCutIncluded || !item.UnitPrice.IsPositive() {
			continue
		}

		paidUnits := types.WholeUnits(item.Paid, item.UnitPrice)
		newUnits := paidUnits - item.CutUnits
		if remaining := item.Quantity - item.CutUnits; newUnits > remaining {
			newUnits = remaining
		}
		if newUnits <= 0 {
			continue
		}

		units := types.NewMoney(float64(newUnits))
		totalRevenue = totalRevenue.Add(item.UnitPrice.Mul(units))

		cost, ok := costByCode[item.ProductCode]
		if ok {
			totalCost = totalCost.Add(cost.Mul(units))
		} else {
			if e.cfg.MissingProduct == MissingProductFail {
				return nil, apperror.NewNotFound("product", item.ProductCode).
					WithDetail("item_id", item.ID.String())
			}
			logger.Warn(ctx, "product missing during cut, cost skipped",
				"product_code", item.ProductCode,
				"item_id", item.ID,
				"units", newUnits,
			)
		}

		itemsCount += newUnits
		cutUnits := item.CutUnits + newUnits
		staged = append(staged, stagedUpdate{
			itemID:        item.ID,
			cutUnits:      cutUnits,
			isCutIncluded: cutUnits >= item.Quantity,
		})
		includedIDs = append(includedIDs, item.ID)
	}

	if itemsCount == 0 {
		return nil, apperror.NewNothingToSettle()
	}

	now := time.Now().UTC()
	cut := &ProfitCut{
		ID:              id.New(),
		ItemsCount:      itemsCount,
		TotalRevenue:    totalRevenue,
		TotalCost:       totalCost,
		NetProfit:       totalRevenue.Sub(totalCost),
		Date:            now,
		UserID:          userID,
		IncludedItemIDs: includedIDs,
		CreatedAt:       now,
	}

	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.repo.Create(ctx, cut); err != nil {
			return fmt.Errorf("create cut: %w", err)
		}
		for _, u := range staged {
			if err := e.ledger.UpdateItemCut(ctx, u.itemID, u.cutUnits, u.isCutIncluded, cut.ID); err != nil {
				return fmt.Errorf("update item %s: %w", u.itemID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "profit cut created",
		"cut_id", cut.ID,
		"items_count", cut.ItemsCount,
		"net_profit", cut.NetProfit,
	)

	return &CutResult{
		CutID:        cut.ID,
		ItemsCount:   cut.ItemsCount,
		TotalRevenue: cut.TotalRevenue,
		TotalCost:    cut.TotalCost,
		NetProfit:    cut.NetProfit,
		Date:         cut.Date,
	}, nil
}

// GetByID retrieves one cut.
func (e *Engine) GetByID(ctx context.Context, cutID id.ID) (*ProfitCut, error) {
	return e.repo.GetByID(ctx, cutID)
}

// List retrieves all cuts, newest first.
func (e *Engine) List(ctx context.Context) ([]*ProfitCut, error) {
	return e.repo.List(ctx)
}

// GetLast returns the most recent cut, or NotFound when none exist.
func (e *Engine) GetLast(ctx context.Context) (*ProfitCut, error) {
	cuts, err := e.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(cuts) == 0 {
		return nil, apperror.NewNotFound("profit cut", "latest")
	}
	return cuts[0], nil
}
