package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/domain/catalogs/product"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create adds a product.
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := product.New(req.Code, req.Name, req.CostPrice, req.SalePrice, req.Stock)
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.Code)
}

// Update modifies a product.
// PUT /api/v1/products/:code
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	existing.Name = req.Name
	existing.CostPrice = req.CostPrice
	existing.SalePrice = req.SalePrice
	existing.Stock = req.Stock

	if err := h.service.Update(c.Request.Context(), existing); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, existing)
}

// Delete removes a product.
// DELETE /api/v1/products/:code
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get retrieves one product.
// GET /api/v1/products/:code
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List retrieves all products.
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}
