// Package profitcut provides the settlement engine that recognizes revenue
// and cost for fully-paid inventory units. Cuts are append-only.
package profitcut

import (
	"time"

	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

// ProfitCut is one settlement record. Immutable once created.
type ProfitCut struct {
	ID id.ID `db:"id" json:"id"`

	// ItemsCount is the number of units recognized by this cut.
	ItemsCount int `db:"items_count" json:"itemsCount"`

	TotalRevenue types.Money `db:"total_revenue" json:"totalRevenue"`
	TotalCost    types.Money `db:"total_cost" json:"totalCost"`
	NetProfit    types.Money `db:"net_profit" json:"netProfit"`

	Date   time.Time `db:"date" json:"date"`
	UserID string    `db:"user_id" json:"userId"`

	// IncludedItemIDs lists the sale line items this cut touched.
	IncludedItemIDs []id.ID `db:"included_item_ids" json:"includedItemIds"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CutResult reports the outcome of CreateCut.
type CutResult struct {
	CutID        id.ID       `json:"cutId"`
	ItemsCount   int         `json:"itemsCount"`
	TotalRevenue types.Money `json:"totalRevenue"`
	TotalCost    types.Money `json:"totalCost"`
	NetProfit    types.Money `json:"netProfit"`
	Date         time.Time   `json:"date"`
}
