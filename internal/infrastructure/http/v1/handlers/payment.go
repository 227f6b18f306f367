package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/domain/payments"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves payment application and history.
type PaymentHandler struct {
	BaseHandler
	allocator *payments.Allocator
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(allocator *payments.Allocator) *PaymentHandler {
	return &PaymentHandler{allocator: allocator}
}

// Apply applies a payment to one sale.
// POST /api/v1/sales/:id/payments
func (h *PaymentHandler) Apply(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ApplyPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.allocator.ApplyToSale(c.Request.Context(), saleID, req.Amount, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Cascade distributes a payment over a client's outstanding sales.
// POST /api/v1/payments/cascade
func (h *PaymentHandler) Cascade(c *gin.Context) {
	var req dto.CascadePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	clientID, err := id.Parse(req.ClientID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid client id").WithDetail("clientId", req.ClientID))
		return
	}

	var priority *id.ID
	if req.PrioritySaleID != "" {
		parsed, err := id.Parse(req.PrioritySaleID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid priority sale id").
				WithDetail("prioritySaleId", req.PrioritySaleID))
			return
		}
		priority = &parsed
	}

	result, err := h.allocator.ApplyCascading(c.Request.Context(), clientID, req.Amount, h.GetUserID(c), priority)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListBySale retrieves a sale's payments, newest first.
// GET /api/v1/sales/:id/payments
func (h *PaymentHandler) ListBySale(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	list, err := h.allocator.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// List retrieves all payments, newest first.
// GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	list, err := h.allocator.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}
