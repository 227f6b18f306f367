package product

import (
	"context"
	"fmt"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// Service provides business operations for the product catalog and stock.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new product. The code must be unused.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetByCode(ctx, p.Code); err == nil && existing != nil {
		return apperror.NewDuplicate("product", "code", p.Code)
	} else if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "code", p.Code, "name", p.Name)
	return nil
}

// Update validates and stores changes to an existing product.
// Prices frozen into sale items are unaffected.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if _, err := s.repo.GetByCode(ctx, p.Code); err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, p)
}

// Delete removes a product. Blocked while sale items or purchases
// reference it.
func (s *Service) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return err
	}

	referenced, err := s.repo.IsReferenced(ctx, code)
	if err != nil {
		return fmt.Errorf("check references: %w", err)
	}
	if referenced {
		return apperror.NewConflict("product is referenced by sales or purchases").
			WithDetail("code", code)
	}

	return s.repo.Delete(ctx, code)
}

// GetByCode retrieves a product by code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Product, error) {
	return s.repo.GetByCode(ctx, code)
}

// List retrieves all products.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

// IncrementStock adds qty units to the product's stock.
func (s *Service) IncrementStock(ctx context.Context, code string, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}
	return s.repo.AdjustStock(ctx, code, qty)
}

// DecrementStock removes qty units from the product's stock.
// Fails with InsufficientStock when fewer than qty units are on hand.
// The read is not locked; the single-writer model makes that acceptable.
func (s *Service) DecrementStock(ctx context.Context, code string, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	p, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return apperror.NewInsufficientStock(code, qty, p.Stock)
	}

	return s.repo.AdjustStock(ctx, code, -qty)
}

// RecordPurchase increments stock and stamps last-purchase info in one call.
func (s *Service) RecordPurchase(ctx context.Context, code string, qty int, unitCost types.Money, at time.Time) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return err
	}
	return s.repo.RecordPurchase(ctx, code, qty, unitCost, at)
}
