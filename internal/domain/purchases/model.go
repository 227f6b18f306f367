// Package purchases provides purchase intake: supplier purchases that feed
// the stock ledger.
package purchases

import (
	"context"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

// Status of a purchase. Intake records complete immediately.
type Status string

const (
	StatusCompleted Status = "completed"
)

// Purchase is one supplier purchase with its lines.
type Purchase struct {
	ID           id.ID       `db:"id" json:"id"`
	SupplierID   *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	SupplierName string      `db:"supplier_name" json:"supplierName"`
	TotalAmount  types.Money `db:"total_amount" json:"totalAmount"`
	TotalItems   int         `db:"total_items" json:"totalItems"`
	Notes        string      `db:"notes" json:"notes,omitempty"`
	Status       Status      `db:"status" json:"status"`
	Date         time.Time   `db:"date" json:"date"`
	UserID       string      `db:"user_id" json:"userId"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one purchased product position.
type Line struct {
	ID          id.ID       `db:"id" json:"id"`
	PurchaseID  id.ID       `db:"purchase_id" json:"purchaseId"`
	ProductCode string      `db:"product_code" json:"productCode"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int         `db:"quantity" json:"quantity"`
	UnitCost    types.Money `db:"unit_cost" json:"unitCost"`
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
}

// NewPurchaseInput describes a purchase to be recorded.
type NewPurchaseInput struct {
	SupplierID   *id.ID
	SupplierName string
	Notes        string
	UserID       string
	Lines        []NewLineInput
}

// NewLineInput is one requested purchase line.
type NewLineInput struct {
	ProductCode string
	ProductName string
	Quantity    int
	UnitCost    types.Money
}

// Validate checks the intake input.
func (in *NewPurchaseInput) Validate(ctx context.Context) error {
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one product is required").
			WithDetail("field", "lines")
	}
	for i, line := range in.Lines {
		if line.ProductCode == "" {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").WithDetail("lineNo", i+1)
		}
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost must not be negative").
				WithDetail("field", "lines").WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// Summary aggregates purchase history.
type Summary struct {
	TotalPurchases   int         `json:"totalPurchases"`
	TotalAmount      types.Money `json:"totalAmount"`
	TotalItems       int         `json:"totalItems"`
	MonthlyPurchases int         `json:"monthlyPurchases"`
	MonthlyAmount    types.Money `json:"monthlyAmount"`
}
