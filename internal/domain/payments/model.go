// Package payments provides the payment allocator: it distributes money
// across a client's outstanding sales and, within a sale, across its line
// items. Payment records are an append-only audit trail.
package payments

import (
	"time"

	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
)

// Payment is one recorded payment against a sale. Immutable once created.
type Payment struct {
	ID        id.ID       `db:"id" json:"id"`
	SaleID    id.ID       `db:"sale_id" json:"saleId"`
	Amount    types.Money `db:"amount" json:"amount"`
	Date      time.Time   `db:"date" json:"date"`
	UserID    string      `db:"user_id" json:"userId"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// ApplyResult reports the outcome of a single-sale payment.
type ApplyResult struct {
	PaymentID         id.ID        `json:"paymentId"`
	AmountApplied     types.Money  `json:"amountApplied"`
	NewTotalPaid      types.Money  `json:"newTotalPaid"`
	NewPendingBalance types.Money  `json:"newPendingBalance"`
	SaleStatus        sales.Status `json:"saleStatus"`
}

// SaleApplication is one cascade step that succeeded.
type SaleApplication struct {
	SaleID  id.ID       `json:"saleId"`
	Applied types.Money `json:"applied"`
	ApplyResult
}

// SaleFailure is one cascade step that failed and was skipped.
type SaleFailure struct {
	SaleID id.ID  `json:"saleId"`
	Reason string `json:"reason"`
}

// CascadeResult reports the outcome of a cascading payment. The cascade is
// not atomic: earlier sales may be settled even when later steps fail, so
// callers must inspect RemainingBalance and Failed rather than rely on an
// error.
type CascadeResult struct {
	TotalApplied     types.Money       `json:"totalApplied"`
	RemainingBalance types.Money       `json:"remainingBalance"`
	AppliedTo        []SaleApplication `json:"appliedTo"`
	Failed           []SaleFailure     `json:"failed,omitempty"`
}
