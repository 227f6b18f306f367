package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

var auditActions = map[string]postgres.AuditAction{
	http.MethodPost:   postgres.AuditActionCreate,
	http.MethodPut:    postgres.AuditActionUpdate,
	http.MethodDelete: postgres.AuditActionDelete,
}

// Audit records every successful mutating request. The request body is
// captured before the handler consumes it; large payloads are compressed
// by the audit store.
func Audit(audit *postgres.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		action, ok := auditActions[c.Request.Method]
		if !ok {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		entityType, entityID := splitAuditPath(c.Request.URL.Path)
		entry := postgres.AuditEntry{
			EntityType: entityType,
			EntityID:   entityID,
			Action:     refineAction(action, c.Request.URL.Path),
		}
		if json.Valid(body) {
			entry.Changes = body
		}
		if err := audit.Log(c.Request.Context(), entry); err != nil {
			// Audit failure must not fail the request.
			logger.Error(c.Request.Context(), "audit log failed", "error", err)
		}
	}
}

// refineAction promotes POSTs on payment and settlement endpoints to their
// dedicated audit actions.
func refineAction(action postgres.AuditAction, path string) postgres.AuditAction {
	if action != postgres.AuditActionCreate {
		return action
	}
	switch {
	case strings.HasSuffix(path, "/payments"), strings.HasSuffix(path, "/payments/cascade"):
		return postgres.AuditActionPayment
	case strings.HasSuffix(path, "/profit-cuts"):
		return postgres.AuditActionCut
	}
	return action
}

// splitAuditPath maps "/api/v1/sales/123/payments" to ("sales", "123").
func splitAuditPath(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	// Drop the "api/v1" prefix.
	if len(parts) > 2 && parts[0] == "api" {
		parts = parts[2:]
	}
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}
