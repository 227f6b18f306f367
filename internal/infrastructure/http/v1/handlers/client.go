package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jomora1/proyvarchar/internal/domain/catalogs/client"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/dto"
)

// ClientHandler serves the client catalog.
type ClientHandler struct {
	BaseHandler
	service *client.Service
}

// NewClientHandler creates a new client handler.
func NewClientHandler(service *client.Service) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create adds a client.
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl := client.New(req.Name, req.Phone, req.Email)
	if err := h.service.Create(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cl.ID.String())
}

// Update modifies a client.
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Email = req.Email

	if err := h.service.Update(c.Request.Context(), existing); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, existing)
}

// Delete removes a client with no sales history.
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), clientID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get retrieves one client with its derived balance and debt status.
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	withBalance, err := h.service.GetWithBalance(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, withBalance)
}

// List retrieves all clients.
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// History retrieves a client's sales, newest first.
// GET /api/v1/clients/:id/history
func (h *ClientHandler) History(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	history, err := h.service.History(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(history))
}
