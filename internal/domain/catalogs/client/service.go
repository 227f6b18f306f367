package client

import (
	"context"
	"fmt"
	"time"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// SalesLedger is the read surface the client service needs for derived
// balances and deletion checks. Implemented by the sales service/repository.
type SalesLedger interface {
	ListByClient(ctx context.Context, clientID id.ID) ([]*sales.Sale, error)
	CountByClient(ctx context.Context, clientID id.ID) (int, error)
}

// Service provides business operations for the client catalog.
type Service struct {
	repo   Repository
	ledger SalesLedger
}

// NewService creates a new client service.
func NewService(repo Repository, ledger SalesLedger) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// Create validates and stores a new client.
func (s *Service) Create(ctx context.Context, c *Client) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	logger.Info(ctx, "client created", "client_id", c.ID, "name", c.Name)
	return nil
}

// Update validates and stores changes to an existing client.
func (s *Service) Update(ctx context.Context, c *Client) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, c.ID); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, c)
}

// Delete removes a client. Blocked while any sale references the client.
func (s *Service) Delete(ctx context.Context, clientID id.ID) error {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return err
	}

	count, err := s.ledger.CountByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("count sales: %w", err)
	}
	if count > 0 {
		return apperror.NewConflict("client has sales history").
			WithDetail("client_id", clientID.String()).
			WithDetail("sales", count)
	}

	return s.repo.Delete(ctx, clientID)
}

// GetByID retrieves a client without balance information.
func (s *Service) GetByID(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

// GetWithBalance retrieves a client with its derived pending balance.
// The balance is recomputed from the sales ledger on every call; it is
// never persisted.
func (s *Service) GetWithBalance(ctx context.Context, clientID id.ID) (*WithBalance, error) {
	c, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	list, err := s.ledger.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	pending := types.Zero()
	for _, sale := range list {
		pending = pending.Add(sale.Pending())
	}

	status := StatusCurrent
	if pending.IsPositive() {
		status = StatusInDebt
	}

	return &WithBalance{
		Client:         *c,
		PendingBalance: pending,
		Status:         status,
	}, nil
}

// List retrieves all clients.
func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.List(ctx)
}

// History retrieves a client's sales with items, newest first.
func (s *Service) History(ctx context.Context, clientID id.ID) ([]*sales.Sale, error) {
	list, err := s.ledger.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	// ListByClient returns oldest first; history reads newest first.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}
