package client

import (
	"context"

	"github.com/jomora1/proyvarchar/internal/core/id"
)

// Repository defines the interface for client persistence.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, clientID id.ID) error

	GetByID(ctx context.Context, clientID id.ID) (*Client, error)

	// List retrieves all clients ordered by name.
	List(ctx context.Context) ([]*Client, error)
}
