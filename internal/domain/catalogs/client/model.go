// Package client provides the client catalog. A client's pending balance
// and debt status are derived from the sales ledger on demand, never stored.
package client

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Status is the derived debt state of a client.
type Status string

const (
	StatusCurrent Status = "current"
	StatusInDebt  Status = "in_debt"
)

// Client represents a customer.
type Client struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a client with a generated id.
func New(name, phone, email string) *Client {
	now := time.Now().UTC()
	return &Client{
		ID:        id.New(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks required fields.
func (c *Client) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email").WithDetail("field", "email")
	}
	return nil
}

// WithBalance is a client together with its derived balance.
type WithBalance struct {
	Client
	PendingBalance types.Money `json:"pendingBalance"`
	Status         Status      `json:"status"`
}
