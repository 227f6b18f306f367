package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the audit trail for reviews.
type AuditHandler struct {
	BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// History handles GET /audit/:type/:id.
func (h *AuditHandler) History(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), c.Param("type"), c.Param("id"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(entries))
}
