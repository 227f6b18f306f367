package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/domain/profitcut"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
)

// ProfitCutHandler serves profit-cut settlement.
type ProfitCutHandler struct {
	BaseHandler
	engine *profitcut.Engine
}

// NewProfitCutHandler creates a new profit-cut handler.
func NewProfitCutHandler(engine *profitcut.Engine) *ProfitCutHandler {
	return &ProfitCutHandler{engine: engine}
}

// Create runs a settlement over the whole ledger.
// POST /api/v1/profit-cuts
func (h *ProfitCutHandler) Create(c *gin.Context) {
	result, err := h.engine.CreateCut(c.Request.Context(), h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get retrieves one cut.
// GET /api/v1/profit-cuts/:id
func (h *ProfitCutHandler) Get(c *gin.Context) {
	cutID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	cut, err := h.engine.GetByID(c.Request.Context(), cutID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cut)
}

// List retrieves all cuts, newest first.
// GET /api/v1/profit-cuts
func (h *ProfitCutHandler) List(c *gin.Context) {
	list, err := h.engine.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// GetLast retrieves the most recent cut.
// GET /api/v1/profit-cuts/last
func (h *ProfitCutHandler) GetLast(c *gin.Context) {
	cut, err := h.engine.GetLast(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cut)
}
