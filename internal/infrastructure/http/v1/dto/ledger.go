package dto

import "github.com/shopspring/decimal"

// SaleItemRequest is one line of a sale to be created.
type SaleItemRequest struct {
	ProductCode string          `json:"productCode" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest creates a sale.
type CreateSaleRequest struct {
	ClientID    string            `json:"clientId" binding:"required"`
	Items       []SaleItemRequest `json:"items" binding:"required"`
	PaymentType string            `json:"paymentType" binding:"required"`
	AmountPaid  decimal.Decimal   `json:"amountPaid"`
}

// ApplyPaymentRequest applies a payment to one sale.
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CascadePaymentRequest distributes a payment over a client's unpaid
// sales, optionally settling one sale first.
type CascadePaymentRequest struct {
	ClientID       string          `json:"clientId" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	PrioritySaleID string          `json:"prioritySaleId"`
}

// PurchaseLineRequest is one line of a purchase to be recorded.
type PurchaseLineRequest struct {
	ProductCode string          `json:"productCode" binding:"required"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unitCost"`
}

// CreatePurchaseRequest records a purchase.
type CreatePurchaseRequest struct {
	SupplierName string                `json:"supplierName"`
	Notes        string                `json:"notes"`
	Lines        []PurchaseLineRequest `json:"lines" binding:"required"`
}
