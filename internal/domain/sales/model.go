// Package sales provides the sales ledger: sale headers and their line
// items, including the paid/pending and cut-unit bookkeeping mutated by the
// payment allocator and the profit-cut engine.
package sales

import (
	"context"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

// PaymentType describes how a sale was paid at creation.
type PaymentType string

const (
	PaymentTotal   PaymentType = "total"
	PaymentPartial PaymentType = "partial"
)

// Status is the settlement state of a sale.
type Status string

const (
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Sale is a sale header. Total is fixed at creation; Paid only grows and
// never exceeds Total.
type Sale struct {
	ID          id.ID       `db:"id" json:"id"`
	ClientID    id.ID       `db:"client_id" json:"clientId"`
	Total       types.Money `db:"total" json:"total"`
	Paid        types.Money `db:"paid" json:"paid"`
	PaymentType PaymentType `db:"payment_type" json:"paymentType"`
	Status      Status      `db:"status" json:"status"`
	Date        time.Time   `db:"date" json:"date"`
	UserID      string      `db:"user_id" json:"userId"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`

	// Table part, loaded separately.
	Items []Item `db:"-" json:"items,omitempty"`
}

// Pending returns the unpaid remainder of the sale.
func (s *Sale) Pending() types.Money {
	return s.Total.Sub(s.Paid)
}

// StatusFor derives the status from a paid amount.
func (s *Sale) StatusFor(paid types.Money) Status {
	if paid.GreaterThanOrEqual(s.Total) {
		return StatusPaid
	}
	return StatusPartial
}

// Item is one sale line. UnitPrice is frozen at creation even if the
// product's list price changes later. CutUnits counts the units already
// recognized by a profit cut and only ever increases.
type Item struct {
	ID          id.ID       `db:"id" json:"id"`
	SaleID      id.ID       `db:"sale_id" json:"saleId"`
	Seq         int         `db:"seq" json:"-"`
	ProductCode string      `db:"product_code" json:"productCode"`
	Quantity    int         `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
	Paid        types.Money `db:"paid" json:"paid"`
	Pending     types.Money `db:"pending" json:"pending"`

	CutUnits      int    `db:"cut_units" json:"cutUnits"`
	IsCutIncluded bool   `db:"is_cut_included" json:"isCutIncluded"`
	CutID         *id.ID `db:"cut_id" json:"cutId,omitempty"`
}

// NewSaleInput describes a sale to be created.
type NewSaleInput struct {
	ClientID    id.ID
	Items       []NewItemInput
	PaymentType PaymentType
	AmountPaid  types.Money
	UserID      string
}

// NewItemInput is one requested line.
type NewItemInput struct {
	ProductCode string
	Quantity    int
	UnitPrice   types.Money
}

// Validate checks the creation input.
func (in *NewSaleInput) Validate(ctx context.Context) error {
	if id.IsNil(in.ClientID) {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	if len(in.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	if in.PaymentType != PaymentTotal && in.PaymentType != PaymentPartial {
		return apperror.NewValidation("invalid payment type").
			WithDetail("field", "paymentType").
			WithDetail("value", string(in.PaymentType))
	}
	if in.AmountPaid.IsNegative() {
		return apperror.NewValidation("amount paid must not be negative").
			WithDetail("field", "amountPaid")
	}
	for i, item := range in.Items {
		if item.ProductCode == "" {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").WithDetail("lineNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").WithDetail("lineNo", i+1)
		}
		if !item.UnitPrice.IsPositive() {
			return apperror.NewValidation("unit price must be positive").
				WithDetail("field", "items").WithDetail("lineNo", i+1)
		}
	}
	if total := in.Total(); in.AmountPaid.GreaterThan(total.Add(types.Epsilon)) {
		return apperror.NewValidation("amount paid exceeds sale total").
			WithDetail("field", "amountPaid").
			WithDetail("total", total.String())
	}
	return nil
}

// Total computes the sale total over the requested lines.
func (in *NewSaleInput) Total() types.Money {
	total := types.Zero()
	for _, item := range in.Items {
		total = total.Add(item.UnitPrice.Mul(types.NewMoney(float64(item.Quantity))))
	}
	return total
}
