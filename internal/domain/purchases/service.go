package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/tx"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// Inventory is the stock surface purchase intake feeds.
// Implemented by the product service.
type Inventory interface {
	RecordPurchase(ctx context.Context, code string, qty int, unitCost types.Money, at time.Time) error
}

// Service provides purchase intake and history reads.
type Service struct {
	repo      Repository
	inventory Inventory
	txManager tx.Manager
}

// NewService creates a new purchase service.
func NewService(repo Repository, inventory Inventory, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		inventory: inventory,
		txManager: txManager,
	}
}

// Create records a purchase and increments stock per line, in one
// transaction. A line referencing an unknown product fails the whole
// purchase.
func (s *Service) Create(ctx context.Context, in NewPurchaseInput) (*Purchase, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	totalAmount := types.Zero()
	totalItems := 0

	purchase := &Purchase{
		ID:           id.New(),
		SupplierID:   in.SupplierID,
		SupplierName: in.SupplierName,
		Notes:        in.Notes,
		Status:       StatusCompleted,
		Date:         now,
		UserID:       in.UserID,
		CreatedAt:    now,
	}
	if purchase.SupplierName == "" {
		purchase.SupplierName = "General supplier"
	}

	lines := make([]Line, 0, len(in.Lines))
	for _, line := range in.Lines {
		subtotal := line.UnitCost.Mul(types.NewMoney(float64(line.Quantity)))
		totalAmount = totalAmount.Add(subtotal)
		totalItems += line.Quantity
		lines = append(lines, Line{
			ID:          id.New(),
			PurchaseID:  purchase.ID,
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			Subtotal:    subtotal,
		})
	}
	purchase.TotalAmount = totalAmount
	purchase.TotalItems = totalItems

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, purchase); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		if err := s.repo.SaveLines(ctx, lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		for _, line := range in.Lines {
			if err := s.inventory.RecordPurchase(ctx, line.ProductCode, line.Quantity, line.UnitCost, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchase.Lines = lines
	logger.Info(ctx, "purchase created",
		"purchase_id", purchase.ID,
		"total_amount", purchase.TotalAmount,
		"total_items", purchase.TotalItems,
	)
	return purchase, nil
}

// GetByID retrieves a purchase with its lines.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	p, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	p.Lines = lines
	return p, nil
}

// List retrieves all purchases, newest first.
func (s *Service) List(ctx context.Context) ([]*Purchase, error) {
	return s.repo.List(ctx)
}

// ListByDateRange retrieves purchases within the range, newest first.
func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time) ([]*Purchase, error) {
	return s.repo.ListByDateRange(ctx, from, to)
}

// GetSummary aggregates purchase history, including the current month.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	summary := &Summary{
		TotalAmount:   types.Zero(),
		MonthlyAmount: types.Zero(),
	}
	for _, p := range list {
		summary.TotalPurchases++
		summary.TotalAmount = summary.TotalAmount.Add(p.TotalAmount)
		summary.TotalItems += p.TotalItems
		if !p.Date.Before(startOfMonth) {
			summary.MonthlyPurchases++
			summary.MonthlyAmount = summary.MonthlyAmount.Add(p.TotalAmount)
		}
	}
	return summary, nil
}
