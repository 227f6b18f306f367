package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
)

type memClientRepo struct {
	clients map[id.ID]*Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[id.ID]*Client)}
}

func (r *memClientRepo) Create(ctx context.Context, c *Client) error {
	copied := *c
	r.clients[c.ID] = &copied
	return nil
}

func (r *memClientRepo) Update(ctx context.Context, c *Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return apperror.NewNotFound("client", c.ID.String())
	}
	copied := *c
	r.clients[c.ID] = &copied
	return nil
}

func (r *memClientRepo) Delete(ctx context.Context, clientID id.ID) error {
	if _, ok := r.clients[clientID]; !ok {
		return apperror.NewNotFound("client", clientID.String())
	}
	delete(r.clients, clientID)
	return nil
}

func (r *memClientRepo) GetByID(ctx context.Context, clientID id.ID) (*Client, error) {
	c, ok := r.clients[clientID]
	if !ok {
		return nil, apperror.NewNotFound("client", clientID.String())
	}
	copied := *c
	return &copied, nil
}

func (r *memClientRepo) List(ctx context.Context) ([]*Client, error) {
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out, nil
}

// memLedger returns sales oldest first, like the real ledger.
type memLedger struct {
	sales map[id.ID][]*sales.Sale
}

func (l *memLedger) ListByClient(ctx context.Context, clientID id.ID) ([]*sales.Sale, error) {
	list := l.sales[clientID]
	out := make([]*sales.Sale, len(list))
	copy(out, list)
	return out, nil
}

func (l *memLedger) CountByClient(ctx context.Context, clientID id.ID) (int, error) {
	return len(l.sales[clientID]), nil
}

func (l *memLedger) addSale(clientID id.ID, total, paid float64, date time.Time) *sales.Sale {
	sale := &sales.Sale{
		ID:       id.New(),
		ClientID: clientID,
		Total:    types.NewMoney(total),
		Paid:     types.NewMoney(paid),
		Date:     date,
	}
	l.sales[clientID] = append(l.sales[clientID], sale)
	return sale
}

func newFixture() (*Service, *memClientRepo, *memLedger) {
	repo := newMemClientRepo()
	ledger := &memLedger{sales: make(map[id.ID][]*sales.Sale)}
	return NewService(repo, ledger), repo, ledger
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		client  *Client
		wantErr bool
	}{
		{"valid", New("Maria", "555-0101", "maria@example.com"), false},
		{"no contact info is fine", New("Pedro", "", ""), false},
		{"blank name", New("  ", "", ""), true},
		{"bad email", New("Maria", "", "not-an-email"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.client.Validate(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetWithBalance(t *testing.T) {
	svc, _, ledger := newFixture()
	ctx := context.Background()

	c := New("Maria", "", "")
	require.NoError(t, svc.Create(ctx, c))

	// No sales: current, zero balance.
	wb, err := svc.GetWithBalance(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, wb.PendingBalance.IsZero())
	assert.Equal(t, StatusCurrent, wb.Status)

	// Two sales, one partially paid.
	now := time.Now()
	ledger.addSale(c.ID, 5000, 5000, now)
	ledger.addSale(c.ID, 3000, 1000, now)

	wb, err = svc.GetWithBalance(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, wb.PendingBalance.Equal(types.NewMoney(2000)))
	assert.Equal(t, StatusInDebt, wb.Status)
	assert.Equal(t, c.Name, wb.Name)
}

func TestGetWithBalance_UnknownClient(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.GetWithBalance(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_BlockedBySalesHistory(t *testing.T) {
	svc, _, ledger := newFixture()
	ctx := context.Background()

	c := New("Maria", "", "")
	require.NoError(t, svc.Create(ctx, c))
	ledger.addSale(c.ID, 100, 100, time.Now())

	err := svc.Delete(ctx, c.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	ledger.sales[c.ID] = nil
	require.NoError(t, svc.Delete(ctx, c.ID))

	_, err = svc.GetByID(ctx, c.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, _, ledger := newFixture()
	ctx := context.Background()

	c := New("Maria", "", "")
	require.NoError(t, svc.Create(ctx, c))

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest := ledger.addSale(c.ID, 100, 100, jan)
	middle := ledger.addSale(c.ID, 200, 200, jan.AddDate(0, 0, 5))
	newest := ledger.addSale(c.ID, 300, 300, jan.AddDate(0, 1, 0))

	history, err := svc.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, newest.ID, history[0].ID)
	assert.Equal(t, middle.ID, history[1].ID)
	assert.Equal(t, oldest.ID, history[2].ID)
}

func TestUpdate_MissingClient(t *testing.T) {
	svc, _, _ := newFixture()

	err := svc.Update(context.Background(), New("Ghost", "", ""))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
