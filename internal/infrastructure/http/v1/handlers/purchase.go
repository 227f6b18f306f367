package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/domain/purchases"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves purchase intake and history.
type PurchaseHandler struct {
	BaseHandler
	service *purchases.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(service *purchases.Service) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

// Create records a purchase.
// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in := purchases.NewPurchaseInput{
		SupplierName: req.SupplierName,
		Notes:        req.Notes,
		UserID:       h.GetUserID(c),
	}
	for _, line := range req.Lines {
		in.Lines = append(in.Lines, purchases.NewLineInput{
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
		})
	}

	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

// Get retrieves one purchase with its lines.
// GET /api/v1/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List retrieves purchases, newest first. Accepts optional from/to query
// parameters in RFC 3339 format.
// GET /api/v1/purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date").WithDetail("from", fromStr))
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date").WithDetail("to", toStr))
			return
		}
		list, err := h.service.ListByDateRange(c.Request.Context(), from, to)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(list))
		return
	}

	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// Summary aggregates purchase history.
// GET /api/v1/purchases/summary
func (h *PurchaseHandler) Summary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
