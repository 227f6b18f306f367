package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the sales ledger.
type SaleHandler struct {
	BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(service *sales.Service) *SaleHandler {
	return &SaleHandler{service: service}
}

// Create records a sale.
// POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	clientID, err := id.Parse(req.ClientID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid client id").WithDetail("clientId", req.ClientID))
		return
	}

	in := sales.NewSaleInput{
		ClientID:    clientID,
		PaymentType: sales.PaymentType(req.PaymentType),
		AmountPaid:  req.AmountPaid,
		UserID:      h.GetUserID(c),
	}
	for _, line := range req.Items {
		in.Items = append(in.Items, sales.NewItemInput{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	sale, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sale.ID.String())
}

// Get retrieves one sale with its items.
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sale)
}

// List retrieves all sales, newest first.
// GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}
