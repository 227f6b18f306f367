package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/tx"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// Inventory is the stock ledger surface the sales service needs.
// Implemented by the product service.
type Inventory interface {
	DecrementStock(ctx context.Context, code string, qty int) error
}

// PaymentRecorder appends an initial payment record for a partially paid
// sale. Implemented by the payment repository.
type PaymentRecorder interface {
	RecordInitial(ctx context.Context, saleID id.ID, amount types.Money, date time.Time, userID string) (id.ID, error)
}

// Service provides sale creation and ledger reads.
type Service struct {
	repo      Repository
	inventory Inventory
	payments  PaymentRecorder
	txManager tx.Manager
}

// NewService creates a new sales service.
func NewService(repo Repository, inventory Inventory, payments PaymentRecorder, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		inventory: inventory,
		payments:  payments,
		txManager: txManager,
	}
}

// Create records a sale: header, line items, stock decrements, and an
// initial payment record when the sale starts partially paid. Everything
// commits in one transaction.
//
// An initial partial amount is seeded into the header's Paid only; the line
// items keep their full pending. Distribution across items happens solely
// through later allocator calls.
func (s *Service) Create(ctx context.Context, in NewSaleInput) (*Sale, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := in.Total()

	// An in-tolerance overpayment is recorded in full on the payment row;
	// the header clamps so paid never exceeds total.
	paid := types.MinMoney(in.AmountPaid, total)
	if in.PaymentType == PaymentTotal {
		paid = total
	}

	sale := &Sale{
		ID:          id.New(),
		ClientID:    in.ClientID,
		Total:       total,
		Paid:        paid,
		PaymentType: in.PaymentType,
		Date:        now,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	sale.Status = sale.StatusFor(paid)

	items := make([]Item, 0, len(in.Items))
	for i, line := range in.Items {
		subtotal := line.UnitPrice.Mul(types.NewMoney(float64(line.Quantity)))
		items = append(items, Item{
			ID:          id.New(),
			SaleID:      sale.ID,
			Seq:         i,
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    subtotal,
			Paid:        types.Zero(),
			Pending:     subtotal,
		})
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateSale(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}

		for _, line := range in.Items {
			if err := s.inventory.DecrementStock(ctx, line.ProductCode, line.Quantity); err != nil {
				return err
			}
		}

		if in.PaymentType == PaymentPartial && in.AmountPaid.IsPositive() {
			if _, err := s.payments.RecordInitial(ctx, sale.ID, in.AmountPaid, now, in.UserID); err != nil {
				return fmt.Errorf("record initial payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale.Items = items
	logger.Info(ctx, "sale created",
		"sale_id", sale.ID,
		"client_id", sale.ClientID,
		"total", sale.Total,
		"status", sale.Status,
	)
	return sale, nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	sale.Items = items

	return sale, nil
}

// List retrieves all sales, newest first.
func (s *Service) List(ctx context.Context) ([]*Sale, error) {
	return s.repo.List(ctx)
}

// ListByClient retrieves a client's sales with items, oldest first.
func (s *Service) ListByClient(ctx context.Context, clientID id.ID) ([]*Sale, error) {
	list, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, sale := range list {
		items, err := s.repo.GetItems(ctx, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("get items: %w", err)
		}
		sale.Items = items
	}
	return list, nil
}

// CountByClient reports how many sales reference the client.
func (s *Service) CountByClient(ctx context.Context, clientID id.ID) (int, error) {
	return s.repo.CountByClient(ctx, clientID)
}
