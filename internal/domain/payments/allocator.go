package payments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/tx"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// SaleLedger is the sales surface the allocator mutates.
type SaleLedger interface {
	GetSale(ctx context.Context, saleID id.ID) (*sales.Sale, error)
	GetItems(ctx context.Context, saleID id.ID) ([]sales.Item, error)
	ListByClient(ctx context.Context, clientID id.ID) ([]*sales.Sale, error)
	UpdateSalePayment(ctx context.Context, saleID id.ID, paid types.Money, status sales.Status) error
	UpdateItemPayment(ctx context.Context, itemID id.ID, paid, pending types.Money) error
}

// Allocator applies payments to the sales ledger.
type Allocator struct {
	repo      Repository
	ledger    SaleLedger
	txManager tx.Manager
}

// NewAllocator creates a new payment allocator.
func NewAllocator(repo Repository, ledger SaleLedger, txManager tx.Manager) *Allocator {
	return &Allocator{
		repo:      repo,
		ledger:    ledger,
		txManager: txManager,
	}
}

// ApplyToSale applies a payment to one sale.
//
// Allocation rule: line items are settled cheapest unit price first, each
// item liquidated completely before money moves to the next. This is a
// business policy (low-value units leave the books first), not an
// accounting optimum. Ties keep insertion order.
//
// The item updates, the sale header update, and the new payment record
// commit in one transaction; partial application is never observable.
func (a *Allocator) ApplyToSale(ctx context.Context, saleID id.ID, amount types.Money, userID string) (*ApplyResult, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("amount", amount.String())
	}

	var result *ApplyResult
	err := a.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := a.ledger.GetSale(ctx, saleID)
		if err != nil {
			return err
		}

		pending := sale.Pending()
		if !pending.IsPositive() {
			return apperror.NewAlreadySettled(saleID.String())
		}
		if amount.GreaterThan(pending.Add(types.Epsilon)) {
			return apperror.NewExcessAmount(saleID.String(), amount.String(), pending.String())
		}

		items, err := a.ledger.GetItems(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UnitPrice.LessThan(items[j].UnitPrice)
		})

		remaining := amount
		for _, item := range items {
			if !remaining.IsPositive() {
				break
			}

			itemPending := item.Subtotal.Sub(item.Paid)
			if !itemPending.IsPositive() {
				continue
			}

			applied := types.MinMoney(remaining, itemPending)
			newPaid := item.Paid.Add(applied)
			newPending := itemPending.Sub(applied)
			if err := a.ledger.UpdateItemPayment(ctx, item.ID, newPaid, newPending); err != nil {
				return fmt.Errorf("update item %s: %w", item.ID, err)
			}
			remaining = remaining.Sub(applied)
		}

		payment := &Payment{
			ID:        id.New(),
			SaleID:    saleID,
			Amount:    amount,
			Date:      time.Now().UTC(),
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}
		if err := a.repo.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		// The payment record keeps the full amount; the header clamps to the
		// total so an in-tolerance overpayment never leaves paid > total.
		newTotalPaid := types.MinMoney(sale.Paid.Add(amount), sale.Total)
		newStatus := sale.StatusFor(newTotalPaid)
		if err := a.ledger.UpdateSalePayment(ctx, saleID, newTotalPaid, newStatus); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}

		result = &ApplyResult{
			PaymentID:         payment.ID,
			AmountApplied:     amount,
			NewTotalPaid:      newTotalPaid,
			NewPendingBalance: sale.Total.Sub(newTotalPaid),
			SaleStatus:        newStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment applied",
		"sale_id", saleID,
		"payment_id", result.PaymentID,
		"amount", amount,
		"status", result.SaleStatus,
	)
	return result, nil
}

// ApplyCascading distributes a payment across a client's outstanding sales:
// the priority sale first when set, then oldest debt first. Each sale is
// settled through ApplyToSale in its own transaction, so the cascade as a
// whole is not atomic. A failed sale is logged and recorded in the result,
// and the cascade moves on to the next sale.
func (a *Allocator) ApplyCascading(ctx context.Context, clientID id.ID, totalAmount types.Money, userID string, prioritySaleID *id.ID) (*CascadeResult, error) {
	if !totalAmount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("amount", totalAmount.String())
	}

	list, err := a.ledger.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	outstanding := make([]*sales.Sale, 0, len(list))
	for _, sale := range list {
		if sale.Status != sales.StatusPaid && sale.Pending().IsPositive() {
			outstanding = append(outstanding, sale)
		}
	}

	sort.SliceStable(outstanding, func(i, j int) bool {
		if prioritySaleID != nil {
			if outstanding[i].ID == *prioritySaleID {
				return true
			}
			if outstanding[j].ID == *prioritySaleID {
				return false
			}
		}
		return outstanding[i].Date.Before(outstanding[j].Date)
	})

	logger.Info(ctx, "cascading payment started",
		"client_id", clientID,
		"amount", totalAmount,
		"outstanding_sales", len(outstanding),
	)

	result := &CascadeResult{
		TotalApplied:     types.Zero(),
		RemainingBalance: totalAmount,
		AppliedTo:        make([]SaleApplication, 0, len(outstanding)),
	}

	remaining := totalAmount
	for _, sale := range outstanding {
		if !remaining.IsPositive() {
			break
		}

		forSale := types.MinMoney(remaining, sale.Pending())
		applied, err := a.ApplyToSale(ctx, sale.ID, forSale, userID)
		if err != nil {
			// The cascade degrades instead of aborting: earlier sales stay
			// settled, this one is skipped, later ones still get money.
			logger.Error(ctx, "cascade step failed",
				"sale_id", sale.ID,
				"amount", forSale,
				"error", err,
			)
			result.Failed = append(result.Failed, SaleFailure{
				SaleID: sale.ID,
				Reason: err.Error(),
			})
			continue
		}

		result.AppliedTo = append(result.AppliedTo, SaleApplication{
			SaleID:      sale.ID,
			Applied:     forSale,
			ApplyResult: *applied,
		})
		remaining = remaining.Sub(forSale)
	}

	result.TotalApplied = totalAmount.Sub(remaining)
	result.RemainingBalance = remaining
	return result, nil
}

// ListBySale retrieves a sale's payments, newest first.
func (a *Allocator) ListBySale(ctx context.Context, saleID id.ID) ([]*Payment, error) {
	return a.repo.ListBySale(ctx, saleID)
}

// List retrieves all payments, newest first.
func (a *Allocator) List(ctx context.Context) ([]*Payment, error) {
	return a.repo.List(ctx)
}
