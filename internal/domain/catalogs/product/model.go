// Package product provides the product catalog and the stock ledger on top
// of it. Products are keyed by a human-assigned code, which doubles as the
// record id.
package product

import (
	"context"
	"strings"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

// Product represents a sellable item with its stock count.
type Product struct {
	// Code is the unique human-assigned identifier, used as the record id.
	Code string `db:"code" json:"code"`

	Name string `db:"name" json:"name"`

	// CostPrice is what the business pays per unit.
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// SalePrice is the list price per unit. Must exceed CostPrice.
	SalePrice types.Money `db:"sale_price" json:"salePrice"`

	// Stock is the on-hand unit count. Never negative.
	Stock int `db:"stock" json:"stock"`

	// Last purchase bookkeeping, updated by purchase intake.
	LastPurchaseDate *time.Time   `db:"last_purchase_date" json:"lastPurchaseDate,omitempty"`
	LastPurchaseCost *types.Money `db:"last_purchase_cost" json:"lastPurchaseCost,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a product with timestamps set.
func New(code, name string, costPrice, salePrice types.Money, stock int) *Product {
	now := time.Now().UTC()
	return &Product{
		Code:      code,
		Name:      name,
		CostPrice: costPrice,
		SalePrice: salePrice,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the catalog invariants.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Code) == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price must not be negative").
			WithDetail("field", "costPrice")
	}
	if p.SalePrice.LessThanOrEqual(p.CostPrice) {
		return apperror.NewValidation("sale price must exceed cost price").
			WithDetail("field", "salePrice").
			WithDetail("costPrice", p.CostPrice.String())
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock must not be negative").
			WithDetail("field", "stock")
	}
	return nil
}
